package middleware

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shakti20/Camper/internal/model"
	"github.com/shakti20/Camper/internal/repository"
	"github.com/shakti20/Camper/internal/session"
)

type fakeSessionStore struct {
	byID map[primitive.ObjectID]*model.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{byID: map[primitive.ObjectID]*model.Session{}}
}

func (f *fakeSessionStore) Insert(_ context.Context, s *model.Session) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSessionStore) FindByID(_ context.Context, id primitive.ObjectID) (*model.Session, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeSessionStore) Touch(_ context.Context, id primitive.ObjectID, deadline, touchedAt time.Time) error {
	if s, ok := f.byID[id]; ok {
		s.Deadline = deadline
		s.TouchedAt = touchedAt
	}
	return nil
}

func (f *fakeSessionStore) PushFlash(_ context.Context, id primitive.ObjectID, kind, message string) error {
	s, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if s.Flash == nil {
		s.Flash = map[string][]string{}
	}
	s.Flash[kind] = append(s.Flash[kind], message)
	return nil
}

func (f *fakeSessionStore) PopFlash(_ context.Context, id primitive.ObjectID) (map[string][]string, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	flash := s.Flash
	s.Flash = nil
	if flash == nil {
		flash = map[string][]string{}
	}
	return flash, nil
}

// flashes collects every pending notification of the given kind across
// all live sessions.
func (f *fakeSessionStore) flashes(kind string) []string {
	var out []string
	for _, s := range f.byID {
		out = append(out, s.Flash[kind]...)
	}
	return out
}

type fakeUserFinder struct {
	byID map[primitive.ObjectID]*model.User
}

func (f *fakeUserFinder) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeListingFinder struct {
	byID map[primitive.ObjectID]*model.Listing
}

func (f *fakeListingFinder) FindByID(_ context.Context, id primitive.ObjectID) (*model.Listing, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func newSessionManager(users ...*model.User) (*session.Manager, *fakeSessionStore) {
	store := newFakeSessionStore()
	finder := &fakeUserFinder{byID: map[primitive.ObjectID]*model.User{}}
	for _, u := range users {
		finder.byID[u.ID] = u
	}
	return session.NewManager(store, finder, "test-secret"), store
}

func loginCookie(t *testing.T, m *session.Manager, userID primitive.ObjectID) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := m.Issue(c, userID)
	require.NoError(t, err)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func newEngine(m *session.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("error.html").Parse(
		`{{.status}}: {{.message}}`)))
	r.Use(Errors(), m.Load())
	return r
}
