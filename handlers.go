package friendzone

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ryanhamamura/friendzone/spawner"
)

const (
	cookieMaxAge = 20 // seconds
	cookieAddTag = "friend"
)

// handleCounter serves the session counter page. A request whose add field is
// exactly the sentinel counts one more friend; anything else is a read.
func (a *App) handleCounter(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "friendzone.counter")
	defer span.End()

	field := r.FormValue(AddField)
	s := a.session(ctx)
	if a.counter.Qualifies(field) && !a.allowAdd(s) {
		a.logWarn(ctx, "add rejected: rate limited")
		http.Error(w, "rate limited", http.StatusTooManyRequests)
		return
	}
	count, added := a.counter.Apply(s, field)
	span.SetAttributes(
		attribute.Int("friendzone.friends", count),
		attribute.Bool("friendzone.added", added),
	)
	if added {
		a.logDebug(ctx, "friend added, session count now %d", count)
		a.publishAdded(ctx, count, "form")
	}

	a.friendPage(w, r, friendPageProps{
		Count:      count,
		Markers:    spawner.ParseCount(r.Header.Get("Cookie")),
		FormAction: "/friend_zone",
		Live:       true,
	})
}

// handleLiveAdd is the Datastar flavour of a qualifying submission: it reads
// the add signal, applies it and patches the total in place.
func (a *App) handleLiveAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "friendzone.live_add")
	defer span.End()

	var sigs struct {
		Add string `json:"add"`
	}
	if err := datastar.ReadSignals(r, &sigs); err != nil {
		a.logWarn(ctx, "live add: read signals: %v", err)
	}
	s := a.session(ctx)
	if a.counter.Qualifies(sigs.Add) && !a.allowAdd(s) {
		a.logWarn(ctx, "live add rejected: rate limited")
		http.Error(w, "rate limited", http.StatusTooManyRequests)
		return
	}
	count, added := a.counter.Apply(s, sigs.Add)
	span.SetAttributes(
		attribute.Int("friendzone.friends", count),
		attribute.Bool("friendzone.added", added),
	)
	if added {
		a.publishAdded(ctx, count, "live")
	}

	var b strings.Builder
	if err := friendTotal(count).Render(&b); err != nil {
		a.logErr(ctx, "live add: render total: %v", err)
		return
	}
	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElements(b.String()); err != nil && sse.Context().Err() == nil {
		a.logErr(ctx, "live add: patch elements: %v", err)
	}
}

// handleCookieCounter keeps the counter in the friends cookie itself. A
// missing or unreadable cookie starts at 1; otherwise an add value containing
// "friend" increments it. The cookie expires after 20 seconds.
func (a *App) handleCookieCounter(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "friendzone.cookie_counter")
	defer span.End()

	friends := 1
	if c, err := r.Cookie(spawner.CookieName); err == nil {
		if n, err := strconv.Atoi(c.Value); err == nil {
			friends = n
			if strings.Contains(r.FormValue(AddField), cookieAddTag) {
				friends++
			}
		} else {
			a.logDebug(ctx, "ignoring unreadable friends cookie %q", c.Value)
		}
	}
	span.SetAttributes(attribute.Int("friendzone.friends", friends))

	http.SetCookie(w, &http.Cookie{
		Name:     spawner.CookieName,
		Value:    strconv.Itoa(friends),
		Path:     "/",
		MaxAge:   cookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	})
	a.friendPage(w, r, friendPageProps{
		Count:      friends,
		Markers:    friends,
		FormAction: "/friend_zone/cookie",
	})
}

// allowAdd checks the session's limiter. A session without a token has never
// been committed, so it cannot have spent anything yet.
func (a *App) allowAdd(s *Session) bool {
	key := s.ID()
	if key == "" {
		return true
	}
	return a.limiters.allow(key, time.Now())
}

func (a *App) publishAdded(ctx context.Context, count int, source string) {
	if a.pubsub == nil {
		return
	}
	evt := FriendAdded{Count: count, Source: source, At: time.Now().UTC()}
	if err := Publish(a.pubsub, SubjectFriendAdded, evt); err != nil {
		a.logErr(ctx, "publish %s failed: %v", SubjectFriendAdded, err)
	}
}
