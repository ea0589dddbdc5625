package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/cancha/internal/adapters/http/api"
	service "github.com/okian/cancha/internal/app"
	"github.com/okian/cancha/internal/domain/model"
	"github.com/okian/cancha/internal/domain/types"
	"github.com/okian/cancha/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newMux() *http.ServeMux {
	svc := service.New(
		service.WithLogger(logger.New(logger.WithWriter(io.Discard))),
		service.WithRankingLimit(5),
	)
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&v), ShouldBeNil)
	return v
}

func playerBody(name, position string, v int) string {
	return fmt.Sprintf(`{"name":%q,"position":%q,"attributes":{"pac":%d,"sho":%d,"pas":%d,"dri":%d,"def":%d,"phy":%d}}`,
		name, position, v, v, v, v, v, v)
}

// seed posts n flat midfielders rated 90, 88, 86, ...
func seed(mux *http.ServeMux, n int) []string {
	ids := make([]string, 0, n)
	for i := range n {
		w := do(mux, http.MethodPost, "/players", playerBody(fmt.Sprintf("player-%02d", i+1), "MED", 90-2*i))
		So(w.Code, ShouldEqual, http.StatusCreated)
		ids = append(ids, decode[model.Player](w).ID)
	}
	return ids
}

func mustJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func matchBody(format string, ids []string) string {
	b, _ := json.Marshal(map[string]any{"format": format, "player_ids": ids})
	return string(b)
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux()

		Convey("Health exposes Prometheus metrics", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "cancha_")
		})

		Convey("Stats reports counters", func() {
			seed(mux, 2)
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			stats := decode[map[string]any](w)
			So(stats["players"], ShouldEqual, float64(2))
			So(stats["defaultMode"], ShouldEqual, "tags")
		})

		Convey("Stats rejects writes", func() {
			w := do(mux, http.MethodPost, "/stats", "{}")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Get("Allow"), ShouldEqual, "GET")
		})

		Convey("Formats are listed by size", func() {
			w := do(mux, http.MethodGet, "/formats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			formats := decode[[]struct {
				Name           string `json:"name"`
				PlayersPerSide int    `json:"players_per_side"`
			}](w)
			So(formats, ShouldHaveLength, 3)
			So(formats[0].Name, ShouldEqual, "5v5")
			So(formats[2].PlayersPerSide, ShouldEqual, 11)
		})

		Convey("Tags expose the catalog", func() {
			w := do(mux, http.MethodGet, "/tags", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode[struct {
				DefaultMode string `json:"default_mode"`
				MaxTags     int    `json:"max_tags"`
				Tags        []struct {
					ID     string         `json:"id"`
					Points map[string]int `json:"points"`
				} `json:"tags"`
			}](w)
			So(body.DefaultMode, ShouldEqual, "tags")
			So(body.MaxTags, ShouldEqual, 3)
			So(body.Tags, ShouldHaveLength, 19)
			So(body.Tags[0].ID, ShouldEqual, "aguante_total")
		})
	})
}

func TestPlayersHandler(t *testing.T) {
	Convey("Given an empty roster", t, func() {
		mux := newMux()

		Convey("Creating a player rates it", func() {
			w := do(mux, http.MethodPost, "/players", playerBody("Lola", "MED", 80))
			So(w.Code, ShouldEqual, http.StatusCreated)
			p := decode[model.Player](w)
			So(p.ID, ShouldNotBeEmpty)
			So(p.Ovr, ShouldEqual, 80)
			So(p.Position, ShouldEqual, model.Midfielder)
			So(w.Header().Get("Location"), ShouldEqual, "/players/"+p.ID)

			Convey("And it can be read back", func() {
				w := do(mux, http.MethodGet, "/players/"+p.ID, "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[model.Player](w).Name, ShouldEqual, "Lola")
			})

			Convey("And updated", func() {
				w := do(mux, http.MethodPut, "/players/"+p.ID, playerBody("Lola", "MED", 70))
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[model.Player](w).Ovr, ShouldEqual, 70)
			})

			Convey("And listed", func() {
				w := do(mux, http.MethodGet, "/players", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[[]model.Player](w), ShouldHaveLength, 1)
			})
		})

		Convey("Out of range attributes are rejected", func() {
			w := do(mux, http.MethodPost, "/players", playerBody("Zero", "DEF", 0))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			body := decode[errorBody](w)
			So(body.Code, ShouldEqual, "bad_request")
			So(body.Message, ShouldContainSubstring, "attributes.pac")
		})

		Convey("A missing name is rejected", func() {
			w := do(mux, http.MethodPost, "/players", playerBody("", "DEF", 50))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[errorBody](w).Message, ShouldContainSubstring, "name")
		})

		Convey("Malformed and unknown fields are rejected", func() {
			So(do(mux, http.MethodPost, "/players", "{").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/players", `{"nickname":"x"}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Unknown players are 404", func() {
			w := do(mux, http.MethodGet, "/players/ghost", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode[errorBody](w).Code, ShouldEqual, "not_found")

			w = do(mux, http.MethodPut, "/players/ghost", playerBody("Ghost", "DEL", 60))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Unsupported methods are 405", func() {
			So(do(mux, http.MethodDelete, "/players", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(do(mux, http.MethodDelete, "/players/x", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestRankingHandler(t *testing.T) {
	Convey("Given seven players", t, func() {
		mux := newMux()
		ids := seed(mux, 7)

		Convey("The default limit is capped by the configured maximum", func() {
			w := do(mux, http.MethodGet, "/ranking", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			entries := decode[[]types.Entry](w)
			So(entries, ShouldHaveLength, 5)
			So(entries[0].PlayerID, ShouldEqual, ids[0])
			So(entries[0].Rank, ShouldEqual, 1)
			So(entries[0].Ovr, ShouldEqual, 90)
			So(entries[4].Ovr, ShouldEqual, 82)
		})

		Convey("An explicit limit is honored", func() {
			entries := decode[[]types.Entry](do(mux, http.MethodGet, "/ranking?limit=2", ""))
			So(entries, ShouldHaveLength, 2)
		})

		Convey("Bad limits are 400", func() {
			for _, q := range []string{"abc", "0", "6"} {
				w := do(mux, http.MethodGet, "/ranking?limit="+q, "")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
			So(decode[errorBody](do(mux, http.MethodGet, "/ranking?limit=6", "")).Code, ShouldEqual, "invalid_limit")
		})
	})
}

func TestMatchesHandler(t *testing.T) {
	Convey("Given ten players", t, func() {
		mux := newMux()
		ids := seed(mux, 10)

		Convey("A 5v5 match is balanced", func() {
			w := do(mux, http.MethodPost, "/matches", matchBody("5v5", ids))
			So(w.Code, ShouldEqual, http.StatusCreated)
			m := decode[model.Match](w)
			So(m.Status, ShouldEqual, model.MatchGenerated)
			So(m.TeamA.Roster, ShouldHaveLength, 5)
			So(m.TeamB.Roster, ShouldHaveLength, 5)
			So(w.Header().Get("Location"), ShouldEqual, "/matches/"+m.ID)

			Convey("And read back", func() {
				w := do(mux, http.MethodGet, "/matches/"+m.ID, "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[model.Match](w).ID, ShouldEqual, m.ID)
				So(decode[[]model.Match](do(mux, http.MethodGet, "/matches", "")), ShouldHaveLength, 1)
			})

			Convey("And evaluated once in rating mode", func() {
				star := m.TeamA.Roster[0].PlayerID
				body := fmt.Sprintf(`{"mode":"rating","score_a":3,"score_b":1,"records":[{"player_id":%q,"rating":8}]}`, star)
				w := do(mux, http.MethodPost, "/matches/"+m.ID+"/evaluation", body)
				So(w.Code, ShouldEqual, http.StatusOK)
				done := decode[model.Match](w)
				So(done.Status, ShouldEqual, model.MatchEvaluated)
				So(*done.TeamA.Score, ShouldEqual, 3)
				So(done.Evaluation.Players, ShouldHaveLength, 1)
				So(done.Evaluation.Players[0].Delta["pas"], ShouldEqual, 2)
				So(done.Evaluation.Players[0].Delta["def"], ShouldEqual, 1)

				p := decode[model.Player](do(mux, http.MethodGet, "/players/"+star, ""))
				So(p.HasBeenEvaluated, ShouldBeTrue)
				So(p.Attributes.Pas, ShouldEqual, m.TeamA.Roster[0].Ovr+2)

				w = do(mux, http.MethodPost, "/matches/"+m.ID+"/evaluation", body)
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(decode[errorBody](w).Code, ShouldEqual, "already_evaluated")
			})

			Convey("And unknown tags are 422 with nothing applied", func() {
				body := fmt.Sprintf(`{"records":[{"player_id":%q,"tags":["not_a_tag"]}]}`, ids[0])
				w := do(mux, http.MethodPost, "/matches/"+m.ID+"/evaluation", body)
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decode[errorBody](w).Code, ShouldEqual, "unknown_tag")

				again := decode[model.Match](do(mux, http.MethodGet, "/matches/"+m.ID, ""))
				So(again.Status, ShouldEqual, model.MatchGenerated)
			})

			Convey("And records need a player id", func() {
				w := do(mux, http.MethodPost, "/matches/"+m.ID+"/evaluation", `{"records":[{"goals":1}]}`)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And evaluation only accepts POST", func() {
				So(do(mux, http.MethodGet, "/matches/"+m.ID+"/evaluation", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("A positional match can be requested", func() {
			body := fmt.Sprintf(`{"format":"5v5","player_ids":%s,"strategy":"positional"}`, mustJSON(ids))
			w := do(mux, http.MethodPost, "/matches", body)
			So(w.Code, ShouldEqual, http.StatusCreated)
			m := decode[model.Match](w)
			So(m.Strategy, ShouldEqual, "positional")
			So(m.OvrDifference, ShouldEqual, 0)
		})

		Convey("Unknown strategies are 400", func() {
			body := fmt.Sprintf(`{"format":"5v5","player_ids":%s,"strategy":"coin"}`, mustJSON(ids))
			w := do(mux, http.MethodPost, "/matches", body)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[errorBody](w).Message, ShouldContainSubstring, "strategy")
		})

		Convey("Too few players is 422", func() {
			w := do(mux, http.MethodPost, "/matches", matchBody("5v5", ids[:3]))
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decode[errorBody](w).Code, ShouldEqual, "insufficient_players")

			Convey("And the failure is counted by its error code", func() {
				body := do(mux, http.MethodGet, "/healthz", "").Body.String()
				So(body, ShouldContainSubstring, `endpoint="matches",error_type="insufficient_players",method="POST"`)
			})
		})

		Convey("Unknown formats are 422", func() {
			w := do(mux, http.MethodPost, "/matches", matchBody("3v4", ids))
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decode[errorBody](w).Code, ShouldEqual, "unknown_format")
		})

		Convey("Duplicate players are 422", func() {
			w := do(mux, http.MethodPost, "/matches", matchBody("5v5", append(ids, ids[0])))
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decode[errorBody](w).Code, ShouldEqual, "duplicate_player")
		})

		Convey("Unknown matches are 404", func() {
			So(do(mux, http.MethodGet, "/matches/ghost", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/matches/a/b/c", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
