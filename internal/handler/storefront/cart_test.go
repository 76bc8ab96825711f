package storefront

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dohyunlee/seoultee/internal/catalog"
)

func newCartHandler(t *testing.T) *CartHandler {
	t.Helper()
	return NewCartHandler(testManager(), catalog.NewStaticService(), testRenderer(t), nil, false)
}

func postForm(path string, form url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestCartHandler_AddAndView(t *testing.T) {
	h := newCartHandler(t)

	w := httptest.NewRecorder()
	h.Add(w, postForm("/cart/add", url.Values{
		"product_id": {"1"},
		"size":       {"M"},
		"color":      {"white"},
		"quantity":   {"2"},
	}))

	require.Equal(t, http.StatusSeeOther, w.Code)
	session := sessionCookie(w)
	require.NotNil(t, session, "first cart mutation mints a session cookie")

	view := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(session)
	h.View(view, req)

	require.Equal(t, http.StatusOK, view.Code)
	assert.Contains(t, view.Body.String(), "Classic White Tee x2")
	assert.Contains(t, view.Body.String(), "total 73000")
}

func TestCartHandler_AddRejectsUnknownOption(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want int
	}{
		{
			"unknown product",
			url.Values{"product_id": {"999"}, "size": {"M"}, "color": {"white"}},
			http.StatusNotFound,
		},
		{
			"size not offered",
			url.Values{"product_id": {"1"}, "size": {"XXXL"}, "color": {"white"}},
			http.StatusBadRequest,
		},
		{
			"color not offered",
			url.Values{"product_id": {"1"}, "size": {"M"}, "color": {"chartreuse"}},
			http.StatusBadRequest,
		},
		{
			"zero quantity",
			url.Values{"product_id": {"1"}, "size": {"M"}, "color": {"white"}, "quantity": {"0"}},
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newCartHandler(t)
			w := httptest.NewRecorder()
			h.Add(w, postForm("/cart/add", tt.form))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCartHandler_UpdateAndRemove(t *testing.T) {
	h := newCartHandler(t)

	w := httptest.NewRecorder()
	h.Add(w, postForm("/cart/add", url.Values{
		"product_id": {"1"}, "size": {"M"}, "color": {"white"}, "quantity": {"1"},
	}))
	session := sessionCookie(w)
	require.NotNil(t, session)

	line := url.Values{"product_id": {"1"}, "size": {"M"}, "color": {"white"}}

	t.Run("update quantity", func(t *testing.T) {
		form := url.Values{}
		for k, v := range line {
			form[k] = v
		}
		form.Set("quantity", "5")

		w := httptest.NewRecorder()
		h.Update(w, postForm("/cart/update", form, session))
		require.Equal(t, http.StatusSeeOther, w.Code)
	})

	t.Run("update below one is rejected", func(t *testing.T) {
		form := url.Values{}
		for k, v := range line {
			form[k] = v
		}
		form.Set("quantity", "0")

		w := httptest.NewRecorder()
		h.Update(w, postForm("/cart/update", form, session))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update unknown line", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Update(w, postForm("/cart/update", url.Values{
			"product_id": {"2"}, "size": {"L"}, "color": {"black"}, "quantity": {"1"},
		}, session))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("remove", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Remove(w, postForm("/cart/remove", line, session))
		require.Equal(t, http.StatusSeeOther, w.Code)

		count := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/cart/count", nil)
		req.AddCookie(session)
		h.Count(count, req)
		assert.JSONEq(t, `{"count":0}`, count.Body.String())
	})
}

func TestCartHandler_Count(t *testing.T) {
	h := newCartHandler(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cart/count", nil)
	h.Count(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0}`, w.Body.String())
}
