package h

import (
	gh "maragu.dev/gomponents/html"
)

func Div(children ...H) H { return gh.Div(retype(children)...) }

func P(children ...H) H { return gh.P(retype(children)...) }

func Span(children ...H) H { return gh.Span(retype(children)...) }

func H1(children ...H) H { return gh.H1(retype(children)...) }

func Form(children ...H) H { return gh.Form(retype(children)...) }

func Input(children ...H) H { return gh.Input(retype(children)...) }

func Button(children ...H) H { return gh.Button(retype(children)...) }

func Script(children ...H) H { return gh.Script(retype(children)...) }

func Link(children ...H) H { return gh.Link(retype(children)...) }

func Meta(children ...H) H { return gh.Meta(retype(children)...) }

func StyleEl(children ...H) H { return gh.StyleEl(retype(children)...) }

// NoScript renders its children only when the browser has scripting disabled.
func NoScript(children ...H) H { return El("noscript", children...) }
