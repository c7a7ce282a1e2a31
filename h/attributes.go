package h

import (
	gh "maragu.dev/gomponents/html"
)

func ID(v string) H { return gh.ID(v) }

func Class(v string) H { return gh.Class(v) }

func Style(v string) H { return gh.Style(v) }

func Type(v string) H { return gh.Type(v) }

func Name(v string) H { return gh.Name(v) }

func Value(v string) H { return gh.Value(v) }

func Action(v string) H { return gh.Action(v) }

func Method(v string) H { return gh.Method(v) }

func Src(v string) H { return gh.Src(v) }

func Href(v string) H { return gh.Href(v) }

func Rel(v string) H { return gh.Rel(v) }

func Lang(v string) H { return gh.Lang(v) }

// Data creates a data-* attribute, e.g. Data("on:click", "@post('/x')").
func Data(name, v string) H { return gh.Data(name, v) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(v string) H { return Attr("aria-label", v) }
