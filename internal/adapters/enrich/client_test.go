package enrich_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/betsafe/internal/adapters/enrich"
	"github.com/okian/betsafe/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const lebronPayload = `{"data":[{"id":237,"first_name":"LeBron","last_name":"James","position":"F",
"team":{"id":14,"abbreviation":"LAL","city":"Los Angeles","full_name":"Los Angeles Lakers"}}],
"meta":{"per_page":25}}`

func TestClient_SearchPlayer(t *testing.T) {
	Convey("Given an upstream profile API", t, func() {
		var gotAuth, gotSearch string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotSearch = r.URL.Query().Get("search")
			if r.URL.Path != "/players" {
				http.NotFound(w, r)
				return
			}
			switch gotSearch {
			case "LeBron James":
				_, _ = w.Write([]byte(lebronPayload))
			case "broken":
				http.Error(w, "boom", http.StatusInternalServerError)
			case "garbage":
				_, _ = w.Write([]byte("{not json"))
			default:
				_, _ = w.Write([]byte(`{"data":[]}`))
			}
		}))
		defer srv.Close()

		c := enrich.New(enrich.WithBaseURL(srv.URL+"/"), enrich.WithAPIKey("k-123"))

		Convey("When the player exists", func() {
			p, err := c.SearchPlayer(context.Background(), "  LeBron James ")

			Convey("Then the first hit should be returned", func() {
				So(err, ShouldBeNil)
				So(gotAuth, ShouldEqual, "k-123")
				So(gotSearch, ShouldEqual, "LeBron James")
				So(p.ID, ShouldEqual, 237)
				So(p.FullName(), ShouldEqual, "LeBron James")
				So(p.Team.FullName, ShouldEqual, "Los Angeles Lakers")
				So(p.Team.Abbreviation, ShouldEqual, "LAL")
				So(p.HeadshotURL(), ShouldEqual,
					"https://ak-static.cms.nba.com/wp-content/uploads/headshots/nba/latest/260x190/237.png")
			})
		})

		Convey("When there are no hits", func() {
			_, err := c.SearchPlayer(context.Background(), "Nobody")
			So(errors.Is(err, enrich.ErrNoProfile), ShouldBeTrue)
		})

		Convey("When upstream fails", func() {
			_, err := c.SearchPlayer(context.Background(), "broken")
			So(errors.Is(err, enrich.ErrUpstream), ShouldBeTrue)

			_, err = c.SearchPlayer(context.Background(), "garbage")
			So(errors.Is(err, enrich.ErrUpstream), ShouldBeTrue)
		})

		Convey("When the name is blank", func() {
			_, err := c.SearchPlayer(context.Background(), "  ")
			So(errors.Is(err, enrich.ErrEmptyQuery), ShouldBeTrue)
		})
	})
}

func TestClient_Disabled(t *testing.T) {
	Convey("Given a client without an API key", t, func() {
		c := enrich.New(enrich.WithBaseURL("http://127.0.0.1:0"))

		Convey("Then it should report disabled and never call upstream", func() {
			So(c.Enabled(), ShouldBeFalse)
			_, err := c.Lookup(context.Background(), "LeBron James")
			So(errors.Is(err, enrich.ErrDisabled), ShouldBeTrue)
			_, err = c.SearchPlayer(context.Background(), "LeBron James")
			So(errors.Is(err, enrich.ErrDisabled), ShouldBeTrue)
		})
	})
}

func TestClient_LookupMemo(t *testing.T) {
	Convey("Given an upstream that counts calls", t, func() {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			if r.URL.Query().Get("search") == "Nobody" {
				_, _ = w.Write([]byte(`{"data":[]}`))
				return
			}
			_, _ = w.Write([]byte(lebronPayload))
		}))
		defer srv.Close()

		c := enrich.New(enrich.WithBaseURL(srv.URL), enrich.WithAPIKey("k"))
		ctx := context.Background()

		Convey("When looking up the same player twice with different casing", func() {
			first, err1 := c.Lookup(ctx, "LeBron James")
			second, err2 := c.Lookup(ctx, "lebron james")

			Convey("Then upstream should be called once", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
				So(atomic.LoadInt32(&calls), ShouldEqual, 1)
			})
		})

		Convey("When a lookup misses", func() {
			_, err1 := c.Lookup(ctx, "Nobody")
			_, err2 := c.Lookup(ctx, "Nobody")

			Convey("Then misses should not be memoised", func() {
				So(errors.Is(err1, enrich.ErrNoProfile), ShouldBeTrue)
				So(errors.Is(err2, enrich.ErrNoProfile), ShouldBeTrue)
				So(atomic.LoadInt32(&calls), ShouldEqual, 2)
			})
		})
	})
}

func TestClient_LookupCollapses(t *testing.T) {
	Convey("Given a slow upstream", t, func() {
		var calls int32
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			<-release
			_, _ = w.Write([]byte(lebronPayload))
		}))
		defer srv.Close()

		c := enrich.New(enrich.WithBaseURL(srv.URL), enrich.WithAPIKey("k"), enrich.WithTimeout(5*time.Second))

		Convey("When many goroutines look up the same player at once", func() {
			const n = 8
			var wg sync.WaitGroup
			errs := make([]error, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = c.Lookup(context.Background(), "LeBron James")
				}(i)
			}
			time.Sleep(100 * time.Millisecond)
			close(release)
			wg.Wait()

			Convey("Then they should share one upstream call", func() {
				for _, err := range errs {
					So(err, ShouldBeNil)
				}
				So(atomic.LoadInt32(&calls), ShouldEqual, 1)
			})
		})
	})
}

func TestClient_Timeout(t *testing.T) {
	Convey("Given an upstream slower than the client timeout", t, func() {
		done := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-done:
			}
		}))
		defer srv.Close()
		defer close(done)

		c := enrich.New(enrich.WithBaseURL(srv.URL), enrich.WithAPIKey("k"), enrich.WithTimeout(50*time.Millisecond))

		Convey("Then Lookup should fail with an upstream error", func() {
			_, err := c.Lookup(context.Background(), "LeBron James")
			So(errors.Is(err, enrich.ErrUpstream), ShouldBeTrue)
		})
	})
}
