package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mlahde/locus/internal/adapters/http/api"
	"github.com/mlahde/locus/internal/adapters/repository"
	"github.com/mlahde/locus/internal/domain/model"
	"github.com/mlahde/locus/internal/domain/trilat"
	"github.com/mlahde/locus/internal/domain/types"
	"github.com/mlahde/locus/internal/domain/validate"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeEngine implements api.Dependencies and api.StatsProvider on top
// of a plain in-memory map.
type fakeEngine struct {
	guesses map[string][]model.Guess
	solver  *trilat.Solver
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		guesses: make(map[string][]model.Guess),
		solver:  trilat.NewSolver(),
	}
}

func (f *fakeEngine) RecordGuess(ctx context.Context, g model.Guess) (bool, error) {
	if err := validate.Guess(g); err != nil {
		return false, &wrappedInvalid{err}
	}
	for _, existing := range f.guesses[g.TargetID] {
		if existing.IsPerfect() {
			return false, nil
		}
	}
	f.guesses[g.TargetID] = append(f.guesses[g.TargetID], g)
	return true, nil
}

// wrappedInvalid mimics the store's error chain.
type wrappedInvalid struct{ cause error }

func (w *wrappedInvalid) Error() string { return repository.ErrInvalidGuess.Error() + ": " + w.cause.Error() }
func (w *wrappedInvalid) Unwrap() error { return repository.ErrInvalidGuess }

func (f *fakeEngine) EstimateLocation(ctx context.Context, targetID string) (model.Location, error) {
	return f.solver.EstimateLocation(f.guesses[targetID])
}

func (f *fakeEngine) GuessesFor(ctx context.Context, targetID string) []types.GuessRecord {
	stored := f.guesses[targetID]
	out := make([]types.GuessRecord, len(stored))
	for i, g := range stored {
		out[i] = types.GuessRecord{TargetID: g.TargetID, Lat: g.Lat, Lon: g.Lon, Score: g.Score}
	}
	return out
}

func (f *fakeEngine) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeEngine) {
	t.Helper()
	engine := newFakeEngine()
	mux := http.NewServeMux()
	api.NewServer(engine, engine).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, engine
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func TestPostGuess(t *testing.T) {
	Convey("Given a running API server", t, func() {
		srv, engine := newTestServer(t)

		Convey("When posting a well-formed guess", func() {
			resp := postJSON(t, srv.URL+"/guesses", `{"target_id":"pic1","lat":60.0,"lon":24.0,"score":100}`)
			defer resp.Body.Close()

			Convey("Then it is recorded", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusCreated)
				So(engine.guesses["pic1"], ShouldHaveLength, 1)
			})
		})

		Convey("When posting a payload with a missing field", func() {
			resp := postJSON(t, srv.URL+"/guesses", `{"target_id":"pic1","lat":60.0,"score":100}`)
			defer resp.Body.Close()

			Convey("Then it is rejected as malformed", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				var body map[string]string
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body["code"], ShouldEqual, "malformed_payload")
			})
		})

		Convey("When posting an out-of-range guess", func() {
			resp := postJSON(t, srv.URL+"/guesses", `{"target_id":"pic1","lat":91.0,"lon":10.0,"score":100}`)
			defer resp.Body.Close()

			Convey("Then it is rejected as invalid", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				var body map[string]string
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body["code"], ShouldEqual, "invalid_guess")
			})
		})

		Convey("When the target is already solved", func() {
			resp := postJSON(t, srv.URL+"/guesses", `{"target_id":"pic1","lat":60.0,"lon":24.0,"score":30000}`)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)

			resp = postJSON(t, srv.URL+"/guesses", `{"target_id":"pic1","lat":61.0,"lon":25.0,"score":500}`)
			defer resp.Body.Close()

			Convey("Then further guesses are acknowledged as skipped", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body map[string]string
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body["status"], ShouldEqual, "skipped")
			})
		})
	})
}

func TestGetEstimate(t *testing.T) {
	Convey("Given a running API server", t, func() {
		srv, engine := newTestServer(t)

		Convey("When the target has a perfect guess", func() {
			engine.guesses["pic1"] = []model.Guess{{TargetID: "pic1", Lat: 60.0, Lon: 24.0, Score: 30000}}

			resp, err := http.Get(srv.URL + "/estimate/pic1")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the estimate echoes the perfect coordinates", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var est types.Estimate
				So(json.NewDecoder(resp.Body).Decode(&est), ShouldBeNil)
				So(est.TargetID, ShouldEqual, "pic1")
				So(est.Lat, ShouldEqual, 60.0)
				So(est.Lon, ShouldEqual, 24.0)
			})
		})

		Convey("When the target has too few guesses", func() {
			resp, err := http.Get(srv.URL + "/estimate/pic2")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the API reports insufficient data", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				var body map[string]string
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body["code"], ShouldEqual, "insufficient_data")
			})
		})

		Convey("When the target id is missing from the path", func() {
			resp, err := http.Get(srv.URL + "/estimate/")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestGetTargetGuesses(t *testing.T) {
	Convey("Given a running API server with stored guesses", t, func() {
		srv, engine := newTestServer(t)
		engine.guesses["pic1"] = []model.Guess{
			{TargetID: "pic1", Lat: 60.0, Lon: 24.0, Score: 100},
			{TargetID: "pic1", Lat: 60.1, Lon: 24.1, Score: 200},
		}

		Convey("When fetching the stored sequence", func() {
			resp, err := http.Get(srv.URL + "/targets/pic1/guesses")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then guesses come back in insertion order", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var records []types.GuessRecord
				So(json.NewDecoder(resp.Body).Decode(&records), ShouldBeNil)
				So(records, ShouldHaveLength, 2)
				So(records[0].Score, ShouldEqual, 100)
				So(records[1].Score, ShouldEqual, 200)
			})
		})

		Convey("When the path is malformed", func() {
			resp, err := http.Get(srv.URL + "/targets/pic1")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	Convey("Given a running API server", t, func() {
		srv, _ := newTestServer(t)

		Convey("Then /stats returns JSON", func() {
			resp, err := http.Get(srv.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("Then /healthz answers 200", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}
