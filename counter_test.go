package friendzone

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addURL = "/friend_zone?add=Add+friend"

func numFriends(n int) string {
	return fmt.Sprintf("let numFriends = %d;", n)
}

func TestCounter_Scenario(t *testing.T) {
	a := newTestApp(t, Options{})
	srv, browser := newBrowser(t, a)

	body := getBody(t, browser, srv.URL+"/friend_zone")
	assert.Contains(t, body, numFriends(0))
	assert.Contains(t, body, "Friends: 0")

	body = getBody(t, browser, srv.URL+addURL)
	assert.Contains(t, body, numFriends(1))

	getBody(t, browser, srv.URL+addURL)
	body = getBody(t, browser, srv.URL+addURL)
	assert.Contains(t, body, numFriends(3))
	assert.Contains(t, body, "Friends: 3")

	body = getBody(t, browser, srv.URL+"/friend_zone")
	assert.Contains(t, body, numFriends(3), "reload must not change the counter")
}

func TestCounter_StartsAtZeroPerSession(t *testing.T) {
	a := newTestApp(t, Options{})
	srv, first := newBrowser(t, a)
	_, second := newBrowser(t, a)

	getBody(t, first, srv.URL+addURL)
	getBody(t, first, srv.URL+addURL)

	assert.Contains(t, getBody(t, second, srv.URL+"/friend_zone"), numFriends(0))
	assert.Contains(t, getBody(t, first, srv.URL+"/friend_zone"), numFriends(2))
}

func TestCounter_NonQualifyingSubmissions(t *testing.T) {
	testcases := []struct {
		desc  string
		query string
	}{
		{"no field", ""},
		{"empty value", "?add="},
		{"lower case", "?add=add+friend"},
		{"trailing space", "?add=Add+friend+"},
		{"prefix only", "?add=Add"},
		{"join button", "?buttonType=Join+us"},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			a := newTestApp(t, Options{})
			srv, browser := newBrowser(t, a)

			getBody(t, browser, srv.URL+addURL)
			body := getBody(t, browser, srv.URL+"/friend_zone"+tc.query)
			assert.Contains(t, body, numFriends(1))
		})
	}
}

func TestCounter_PostForm(t *testing.T) {
	a := newTestApp(t, Options{})
	srv, browser := newBrowser(t, a)

	resp, err := browser.PostForm(srv.URL+"/friend_zone", url.Values{AddField: {AddSentinel}})
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(b), numFriends(1))
}

func TestCounter_PublishesFriendAdded(t *testing.T) {
	ps := newMockPubSub()
	a := newTestApp(t, Options{PubSub: ps})
	srv, browser := newBrowser(t, a)

	events := make(chan FriendAdded, 4)
	_, err := Subscribe(ps, SubjectFriendAdded, func(evt FriendAdded) { events <- evt })
	require.NoError(t, err)

	getBody(t, browser, srv.URL+"/friend_zone")
	getBody(t, browser, srv.URL+addURL)
	getBody(t, browser, srv.URL+addURL)

	require.Len(t, events, 2)
	first, second := <-events, <-events
	assert.Equal(t, 1, first.Count)
	assert.Equal(t, 2, second.Count)
	assert.Equal(t, "form", second.Source)
	assert.False(t, second.At.IsZero())
}

func TestCounter_RateLimitedAddLeavesCounter(t *testing.T) {
	a := newTestApp(t, Options{AddRateLimit: RateLimitConfig{Rate: 0.001, Burst: 2}})
	srv, browser := newBrowser(t, a)

	getBody(t, browser, srv.URL+"/friend_zone")
	getBody(t, browser, srv.URL+addURL)
	getBody(t, browser, srv.URL+addURL)

	resp, err := browser.Get(srv.URL + addURL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// reads are never limited
	assert.Contains(t, getBody(t, browser, srv.URL+"/friend_zone"), numFriends(2))
}

func TestCounter_UnlimitedByDefault(t *testing.T) {
	a := newTestApp(t, Options{})
	srv, browser := newBrowser(t, a)

	var body string
	for range 50 {
		body = getBody(t, browser, srv.URL+addURL)
	}
	assert.Contains(t, body, numFriends(50))
}

func TestCounter_FirstVisitsDoNotShareABucket(t *testing.T) {
	a := newTestApp(t, Options{AddRateLimit: RateLimitConfig{Rate: 0.001, Burst: 1}})

	// Same RemoteAddr, no session cookie: each is a new visitor.
	for range 3 {
		w := serve(a, httptest.NewRequest("GET", addURL, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), numFriends(1))
	}
}

func TestCounter_MarkersFollowCookieNotSession(t *testing.T) {
	a := newTestApp(t, Options{})
	r, _ := http.NewRequest("GET", addURL, nil)
	r.Header.Set("Cookie", "friends=4")

	w := serve(a, r)
	body := w.Body.String()

	assert.Contains(t, body, numFriends(1))
	assert.Equal(t, 4, strings.Count(body, `class="friend-marker"`))
}

func TestCounter_FallbackMarkersCapped(t *testing.T) {
	a := newTestApp(t, Options{MaxFallbackMarkers: 3})
	r, _ := http.NewRequest("GET", "/friend_zone", nil)
	r.Header.Set("Cookie", "friends=10")

	body := serve(a, r).Body.String()
	assert.Equal(t, 3, strings.Count(body, `class="friend-marker"`))
}

func TestCounterService_Apply(t *testing.T) {
	cs := NewCounterService()
	assert.True(t, cs.Qualifies("Add friend"))
	assert.False(t, cs.Qualifies("Add friends"))

	// a nil session manager reads as an empty session
	s := &Session{}
	n, added := cs.Apply(s, "nope")
	assert.Equal(t, 0, n)
	assert.False(t, added)
}
