package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a registered site", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		Convey("When requesting the root path", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it redirects to the index page", func() {
				So(w.Code, ShouldEqual, http.StatusTemporaryRedirect)
				So(w.Header().Get("Location"), ShouldEqual, "/static/index.html")
			})
		})

		Convey("When requesting the index page", func() {
			req := httptest.NewRequest(http.MethodGet, "/static/index.html", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the embedded html is served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, "Mergington High School")
			})
		})

		Convey("When requesting a script asset", func() {
			req := httptest.NewRequest(http.MethodGet, "/static/app.js", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "/activities")
		})

		Convey("When requesting an unknown path", func() {
			req := httptest.NewRequest(http.MethodGet, "/some-asset", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When requesting a missing static file", func() {
			req := httptest.NewRequest(http.MethodGet, "/static/missing.css", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		So(func() { Register(context.Background(), nil) }, ShouldPanic)
	})
}
