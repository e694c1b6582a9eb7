package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liaisonhq/liaison/auth"
	"github.com/liaisonhq/liaison/cache"
	"github.com/liaisonhq/liaison/dataservice"
	"github.com/liaisonhq/liaison/model"
	"github.com/liaisonhq/liaison/pkg/testsupport"
	"github.com/liaisonhq/liaison/store"
)

func newPersonaResource(t *testing.T) (*Resource[*model.Persona], chi.Router) {
	t.Helper()
	st := store.New(testsupport.NewDB(t), store.ModelHandlers[*model.Persona]{
		NewRecord: func() *model.Persona { return &model.Persona{} },
	})
	svc := dataservice.New(st, testsupport.NewCache(t), cache.NewDefaultKeySerializer(), dataservice.DefaultOptions())
	res := NewResource(svc, NewFeedbackHub(), nil)

	r := chi.NewRouter()
	r.Route("/personas", res.Mount)
	return res, r
}

func TestStatusMapping(t *testing.T) {
	cases := map[dataservice.ErrorKind]int{
		dataservice.KindValidation:   http.StatusUnprocessableEntity,
		dataservice.KindUnauthorized: http.StatusForbidden,
		dataservice.KindNotFound:     http.StatusNotFound,
		dataservice.KindConcurrency:  http.StatusConflict,
		dataservice.KindCancelled:    statusClientClosedRequest,
		dataservice.KindStore:        http.StatusInternalServerError,
		dataservice.KindUnknown:      http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, statusFor(kind), "kind %v", kind)
	}
}

func TestResourceCreateAndGet(t *testing.T) {
	_, router := newPersonaResource(t)

	body := bytes.NewBufferString(`{"name":"Quiet Fox","notes":"seen at the docks"}`)
	req := httptest.NewRequest(http.MethodPost, "/personas/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Persona
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEqual(t, uuid.Nil, created.GetID())

	req = httptest.NewRequest(http.MethodGet, "/personas/"+created.GetID().String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched model.Persona
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "Quiet Fox", fetched.Name)
}

func TestResourceValidationError(t *testing.T) {
	_, router := newPersonaResource(t)

	req := httptest.NewRequest(http.MethodPost, "/personas/", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Kind)
}

func TestResourceNotFound(t *testing.T) {
	_, router := newPersonaResource(t)

	req := httptest.NewRequest(http.MethodGet, "/personas/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResourceBadID(t *testing.T) {
	_, router := newPersonaResource(t)

	req := httptest.NewRequest(http.MethodGet, "/personas/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthenticatorRoundTrip(t *testing.T) {
	key := []byte("test-signing-key")
	actor := &auth.Actor{ID: uuid.New(), Roles: []string{auth.AdminRole}, Permissions: []string{"persona:read"}}

	token, err := IssueToken(key, actor)
	require.NoError(t, err)

	var seen *auth.Actor
	handler := Authenticator(key, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ActorFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	assert.Equal(t, actor.ID, seen.ID)
	assert.True(t, seen.IsAdmin())
	assert.True(t, seen.Can("persona", auth.OpRead))
}

func TestAuthenticatorRejectsBadToken(t *testing.T) {
	handler := Authenticator([]byte("right-key"), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for an invalid token")
	}))

	token, err := IssueToken([]byte("wrong-key"), &auth.Actor{ID: uuid.New()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorAllowsAnonymous(t *testing.T) {
	called := false
	handler := Authenticator([]byte("key"), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, ActorFromContext(r.Context()))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestBreadcrumbs(t *testing.T) {
	id := uuid.NewString()
	trail := Breadcrumbs("/personas/" + id + "/social-media-accounts")

	require.Len(t, trail, 4)
	assert.Equal(t, Crumb{Label: "Home", Path: "/"}, trail[0])
	assert.Equal(t, Crumb{Label: "Personas", Path: "/personas"}, trail[1])
	assert.Equal(t, "Detail", trail[2].Label)
	assert.Equal(t, Crumb{Label: "Social Media Accounts", Path: "/personas/" + id + "/social-media-accounts"}, trail[3])
}

func TestBreadcrumbsMultibyteSegment(t *testing.T) {
	trail := Breadcrumbs("/östersund-office")

	require.Len(t, trail, 2)
	assert.Equal(t, "Östersund Office", trail[1].Label)
}

func TestFeedbackHub(t *testing.T) {
	hub := NewFeedbackHub()
	actor := &auth.Actor{ID: uuid.New()}

	hub.Push(actor, FeedbackSuccess, "record created")
	hub.Push(actor, FeedbackWarning, "cache degraded")

	msgs := hub.Pop(actor)
	require.Len(t, msgs, 2)
	assert.Equal(t, FeedbackSuccess, msgs[0].Level)

	assert.Empty(t, hub.Pop(actor), "pop must clear the queue")
	assert.Empty(t, hub.Pop(nil), "anonymous bucket starts empty")
}

func TestTimeZoneConverter(t *testing.T) {
	conv := NewTimeZoneConverter()
	instant := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	ny := conv.Convert(instant, "America/New_York")
	assert.Equal(t, "America/New_York", ny.Location().String())
	assert.True(t, ny.Equal(instant), "conversion must not move the instant")

	assert.Equal(t, instant, conv.Convert(instant, ""))
	assert.Equal(t, instant, conv.Convert(instant, "Not/AZone"))

	assert.Equal(t, "-04:00", conv.Offset(instant, "America/New_York"))
	assert.Equal(t, "+00:00", conv.Offset(instant, ""))
	assert.True(t, conv.IsValidZone("Europe/Stockholm"))
	assert.False(t, conv.IsValidZone("Not/AZone"))
}
