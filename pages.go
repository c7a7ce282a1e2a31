package friendzone

import (
	"math/rand/v2"
	"net/http"

	"github.com/ryanhamamura/friendzone/h"
	"github.com/ryanhamamura/friendzone/spawner"
)

const friendTotalID = "friend-total"

type friendPageProps struct {
	// Count is the server-side counter embedded into the page.
	Count int
	// Markers is the count signal used for the noscript fallback.
	Markers int
	// FormAction is where the add form submits to.
	FormAction string
	// Live adds a Datastar button that increments without reloading.
	Live bool
}

func (a *App) renderDocument(w http.ResponseWriter, r *http.Request, title string, head []h.H, body []h.H) {
	headElements := append([]h.H{}, a.documentHeadIncludes...)
	headElements = append(headElements, head...)
	bodyElements := append(body, a.documentFootIncludes...)
	doc := h.HTML5(h.HTML5Props{
		Title:    title,
		Language: "en",
		Head:     headElements,
		Body:     bodyElements,
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := doc.Render(w); err != nil {
		a.logErr(r.Context(), "render %s failed: %v", r.URL.Path, err)
	}
}

func window(title string, body ...h.H) h.H {
	return h.Div(h.Class("demo"),
		h.Div(h.Class("window"), h.Style("width: 700px"),
			h.Div(h.Class("title-bar"),
				h.Div(h.Class("title-bar-text"), h.Text(title)),
			),
			h.Div(append([]h.H{h.Class("window-body")}, body...)...),
		),
	)
}

func submitButton(name, value string) h.H {
	return h.Div(h.Class("btns"),
		h.Input(h.Type("submit"), h.Name(name), h.Value(value)),
	)
}

// handleLanding serves the entry page whose form leads to the counter.
func (a *App) handleLanding(w http.ResponseWriter, r *http.Request) {
	a.renderDocument(w, r, "counter", nil, []h.H{
		window("The friend zone 😳",
			h.Form(h.Action("/friend_zone"), h.Method("get"),
				submitButton("buttonType", "Join us"),
			),
		),
	})
}

func friendTotal(count int) h.H {
	return h.Div(h.ID(friendTotalID), h.Textf("Friends: %d", count))
}

func (a *App) fallbackMarkers(count int) h.H {
	count = min(count, a.cfg.MaxFallbackMarkers)
	rnd := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	return h.NoScript(spawner.Render(spawner.Plan(count, a.cfg.Screen, rnd)))
}

func (a *App) friendPage(w http.ResponseWriter, r *http.Request, p friendPageProps) {
	var head []h.H
	var live h.H
	if p.Live {
		head = append(head, h.Script(h.Type("module"), h.Src(a.cfg.DatastarScriptURL)))
		live = h.Div(h.Class("btns"), h.Data("signals", "{add: ''}"),
			h.Button(
				h.Text("Add friend live"),
				h.Data("on:click", "$add = '"+AddSentinel+"'; @post('/friend_zone/live')"),
			),
		)
	}

	a.renderDocument(w, r, a.cfg.DocumentTitle, head, []h.H{
		h.P(h.Class("friend-count"), h.Text("Friend count #")),
		window("The friend zone 😳",
			friendTotal(p.Count),
			h.Form(h.Action(p.FormAction), h.Method("get"),
				submitButton(AddField, AddSentinel),
			),
			live,
		),
		h.Script(h.Rawf("let numFriends = %d;", p.Count)),
		h.Script(h.Src("/assets/friendAdder.js")),
		a.fallbackMarkers(p.Markers),
	})
}
