package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/cancha/internal/adapters/repository"
	"github.com/okian/cancha/internal/config"
	"github.com/okian/cancha/internal/domain/evaluation"
	"github.com/okian/cancha/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestBuildService(t *testing.T) {
	quiet := logger.New(logger.WithWriter(io.Discard))

	convey.Convey("Given the default configuration", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)

		convey.Convey("Then the service uses the in-memory store and config tables", func() {
			svc, err := buildService(ctx, cfg, quiet)
			convey.So(err, convey.ShouldBeNil)
			defer svc.Stop()

			convey.So(svc.DefaultMode(), convey.ShouldEqual, evaluation.ModeTags)
			convey.So(svc.MaxRankingLimit(), convey.ShouldEqual, cfg.MaxRankingLimit)
			convey.So(svc.Formats().Names(), convey.ShouldResemble, []string{"5v5", "7v7", "11v11"})
			convey.So(svc.GetStats(ctx)["tags"], convey.ShouldEqual, len(evaluation.DefaultCatalog()))
		})

		convey.Convey("When the store is sqlite", func() {
			cfg.Store = repository.KindSQLite
			cfg.SQLitePath = filepath.Join(t.TempDir(), "cancha.db")

			convey.Convey("Then the database is opened at the configured path", func() {
				svc, err := buildService(ctx, cfg, quiet)
				convey.So(err, convey.ShouldBeNil)
				defer svc.Stop()
				convey.So(svc.GetStats(ctx)["players"], convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the default mode is unknown", func() {
			cfg.EvaluationMode = "vibes"

			convey.Convey("Then building fails", func() {
				_, err := buildService(ctx, cfg, quiet)
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a mux built from the default configuration", t, func() {
		ctx := context.Background()
		svc, err := buildService(ctx, config.New(ctx), logger.New(logger.WithWriter(io.Discard)))
		convey.So(err, convey.ShouldBeNil)
		mux := newMux(ctx, svc)

		for _, path := range []string{"/healthz", "/stats", "/players", "/ranking", "/tags", "/formats", "/openapi.yaml", "/api-docs"} {
			convey.Convey("Then GET "+path+" answers 200", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		}

		convey.Convey("Then a player can be created through it", func() {
			body := `{"name":"Rocio","position":"DEF","attributes":{"pac":60,"sho":60,"pas":60,"dri":60,"def":60,"phy":60}}`
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/players", strings.NewReader(body)))
			convey.So(w.Code, convey.ShouldEqual, http.StatusCreated)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"ovr":60`)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Updating system metrics does not panic", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)
	})
}
