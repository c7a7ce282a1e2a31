package friendzone

import "github.com/ryanhamamura/friendzone/h"

const xpCSSURL = "https://unpkg.com/xp.css"

// XPTheme loads the XP.css stylesheet the pages are designed around.
func XPTheme(a *App) {
	a.AppendToHead(
		h.Link(h.Rel("stylesheet"), h.Href(xpCSSURL)),
		h.StyleEl(h.Raw(`body { background-color: #ece9d8; }
.demo { display: flex; justify-content: center; align-items: center; text-align: center; min-height: 100vh; }
.btns { display: flex; justify-content: center; padding: 1rem; font-size: 20px; }
.friend { display: flex; justify-content: center; align-items: center; }`)),
	)
}
