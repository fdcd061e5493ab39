package handler

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shakti20/Camper/internal/geocode"
	"github.com/shakti20/Camper/internal/middleware"
	"github.com/shakti20/Camper/internal/model"
	"github.com/shakti20/Camper/internal/repository"
	"github.com/shakti20/Camper/internal/service"
	"github.com/shakti20/Camper/internal/session"
)

type fakeListings struct {
	byID    map[primitive.ObjectID]*model.Listing
	inserts int
}

func newFakeListings() *fakeListings {
	return &fakeListings{byID: map[primitive.ObjectID]*model.Listing{}}
}

func (f *fakeListings) Insert(_ context.Context, l *model.Listing) error {
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	cp := *l
	f.byID[l.ID] = &cp
	f.inserts++
	return nil
}

func (f *fakeListings) FindByID(_ context.Context, id primitive.ObjectID) (*model.Listing, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	cp.Images = append([]model.Image(nil), l.Images...)
	cp.Reviews = append([]primitive.ObjectID(nil), l.Reviews...)
	return &cp, nil
}

func (f *fakeListings) FindAll(_ context.Context) ([]model.Listing, error) {
	out := make([]model.Listing, 0, len(f.byID))
	for _, l := range f.byID {
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeListings) Update(_ context.Context, l *model.Listing) error {
	cur, ok := f.byID[l.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Title = l.Title
	cur.Description = l.Description
	cur.Location = l.Location
	cur.Price = l.Price
	cur.Images = append([]model.Image(nil), l.Images...)
	return nil
}

func (f *fakeListings) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeListings) PullImages(_ context.Context, id primitive.ObjectID, filenames []string) error {
	l, ok := f.byID[id]
	if !ok {
		return nil
	}
	drop := map[string]bool{}
	for _, fn := range filenames {
		drop[fn] = true
	}
	kept := l.Images[:0]
	for _, img := range l.Images {
		if !drop[img.Filename] {
			kept = append(kept, img)
		}
	}
	l.Images = kept
	return nil
}

func (f *fakeListings) PushReview(_ context.Context, id, reviewID primitive.ObjectID) error {
	l, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	l.Reviews = append(l.Reviews, reviewID)
	return nil
}

func (f *fakeListings) PullReview(_ context.Context, id, reviewID primitive.ObjectID) error {
	l, ok := f.byID[id]
	if !ok {
		return nil
	}
	kept := l.Reviews[:0]
	for _, r := range l.Reviews {
		if r != reviewID {
			kept = append(kept, r)
		}
	}
	l.Reviews = kept
	return nil
}

type fakeReviews struct {
	byID map[primitive.ObjectID]*model.Review
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{byID: map[primitive.ObjectID]*model.Review{}}
}

func (f *fakeReviews) Insert(_ context.Context, rev *model.Review) error {
	if rev.ID.IsZero() {
		rev.ID = primitive.NewObjectID()
	}
	cp := *rev
	f.byID[rev.ID] = &cp
	return nil
}

func (f *fakeReviews) FindByID(_ context.Context, id primitive.ObjectID) (*model.Review, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviews) FindByListing(_ context.Context, listingID primitive.ObjectID) ([]model.Review, error) {
	var out []model.Review
	for _, r := range f.byID {
		if r.Listing == listingID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReviews) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeReviews) DeleteByListing(_ context.Context, listingID primitive.ObjectID) (int64, error) {
	var n int64
	for id, r := range f.byID {
		if r.Listing == listingID {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

type fakeImages struct {
	uploaded []string
	deleted  []string
	seq      int
}

func (f *fakeImages) Upload(_ context.Context, _ io.Reader, originalName string) (string, string, error) {
	f.seq++
	filename := fmt.Sprintf("stored-%d", f.seq)
	f.uploaded = append(f.uploaded, originalName)
	return "/images/" + filename, filename, nil
}

func (f *fakeImages) Delete(_ context.Context, filename string) error {
	f.deleted = append(f.deleted, filename)
	return nil
}

type fakeGeocoder struct {
	point geocode.Point
	err   error
}

func (f *fakeGeocoder) Forward(_ context.Context, _ string) (geocode.Point, error) {
	if f.err != nil {
		return geocode.Point{}, f.err
	}
	return f.point, nil
}

type fakeUsers struct {
	byID       map[primitive.ObjectID]*model.User
	byUsername map[string]*model.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:       map[primitive.ObjectID]*model.User{},
		byUsername: map[string]*model.User{},
	}
}

func (f *fakeUsers) Insert(_ context.Context, u *model.User) error {
	if _, exists := f.byUsername[u.Username]; exists {
		return repository.ErrDuplicate
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	cp := *u
	f.byID[u.ID] = &cp
	f.byUsername[u.Username] = &cp
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.User, error) {
	out := map[primitive.ObjectID]model.User{}
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

type fakeSessions struct {
	byID map[primitive.ObjectID]*model.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: map[primitive.ObjectID]*model.Session{}}
}

func (f *fakeSessions) Insert(_ context.Context, s *model.Session) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSessions) FindByID(_ context.Context, id primitive.ObjectID) (*model.Session, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeSessions) Touch(_ context.Context, id primitive.ObjectID, deadline, touchedAt time.Time) error {
	if s, ok := f.byID[id]; ok {
		s.Deadline = deadline
		s.TouchedAt = touchedAt
	}
	return nil
}

func (f *fakeSessions) PushFlash(_ context.Context, id primitive.ObjectID, kind, message string) error {
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

func (f *fakeSessions) PopFlash(_ context.Context, id primitive.ObjectID) (map[string][]string, error) {
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

// Page stubs mirroring the real templates' data contracts, kept minimal
// so tests can assert on rendered content.
const pageStubs = `
{{define "flash"}}{{range .success}}[success: {{.}}]{{end}}{{range .error}}[error: {{.}}]{{end}}{{end}}
{{define "home.html"}}{{template "flash" .}}home{{end}}
{{define "campgrounds_index.html"}}{{template "flash" .}}{{range .campgrounds}}<li>{{.Title}}</li>{{end}}{{end}}
{{define "campgrounds_new.html"}}{{template "flash" .}}new{{end}}
{{define "campgrounds_show.html"}}{{template "flash" .}}<h1>{{.campground.Title}}</h1>[{{range .campground.Geometry.Coordinates}}{{.}} {{end}}]{{range .campground.Images}}<img src="{{.URL}}">{{end}}{{range .reviews}}<p>{{.Review.Body}} ({{.Review.Rating}}) by {{.Author.Username}}</p>{{end}}{{end}}
{{define "campgrounds_edit.html"}}{{template "flash" .}}edit {{.campground.Title}}{{end}}
{{define "register.html"}}{{template "flash" .}}register{{end}}
{{define "login.html"}}{{template "flash" .}}login{{end}}
{{define "error.html"}}{{.status}}: {{.message}}{{end}}
`

type app struct {
	handler  http.Handler
	listings *fakeListings
	reviews  *fakeReviews
	images   *fakeImages
	geocoder *fakeGeocoder
	users    *fakeUsers
}

// newApp wires the full request pipeline over in-memory stores, routed
// exactly as in production.
func newApp() *app {
	gin.SetMode(gin.TestMode)

	a := &app{
		listings: newFakeListings(),
		reviews:  newFakeReviews(),
		images:   &fakeImages{},
		geocoder: &fakeGeocoder{point: geocode.Point{Lng: 2.3522, Lat: 48.8566}},
		users:    newFakeUsers(),
	}

	sessions := session.NewManager(newFakeSessions(), a.users, "test-secret")
	listingSvc := service.NewListingService(a.listings, a.reviews, a.images, a.geocoder)
	reviewSvc := service.NewReviewService(a.reviews, a.listings, a.users)
	authSvc := service.NewAuthService(a.users)

	listings := &ListingHandler{Listings: listingSvc, Reviews: reviewSvc, Sessions: sessions}
	reviews := &ReviewHandler{Reviews: reviewSvc, Sessions: sessions}
	auth := &AuthHandler{Auth: authSvc, Sessions: sessions}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Errors())
	r.Use(sessions.Load())
	r.SetHTMLTemplate(template.Must(template.New("pages").Parse(pageStubs)))
	r.NoRoute(middleware.NotFound())

	requireLogin := middleware.RequireLogin(sessions)
	requireOwner := middleware.RequireOwner(sessions, a.listings)

	r.GET("/", listings.Home)
	r.GET("/campgrounds", listings.Index)
	r.GET("/campgrounds/new", requireLogin, listings.New)
	r.POST("/campgrounds", requireLogin, listings.Create)
	r.GET("/campgrounds/:id", listings.Show)
	r.GET("/campgrounds/:id/edit", requireLogin, requireOwner, listings.Edit)
	r.PUT("/campgrounds/:id", requireLogin, requireOwner, listings.Update)
	r.DELETE("/campgrounds/:id", requireLogin, requireOwner, listings.Delete)

	r.POST("/campgrounds/:id/reviews", requireLogin, reviews.Create)
	r.DELETE("/campgrounds/:id/reviews/:reviewId", requireLogin, reviews.Delete)

	r.GET("/register", auth.RegisterPage)
	r.POST("/register", auth.Register)
	r.GET("/login", auth.LoginPage)
	r.POST("/login", auth.Login)
	r.GET("/logout", auth.Logout)

	a.handler = middleware.MethodOverride(r)
	return a
}

// browser drives the app as one cookie-holding client.
type browser struct {
	t   *testing.T
	app *app
	jar map[string]*http.Cookie
}

func (a *app) browser(t *testing.T) *browser {
	return &browser{t: t, app: a, jar: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, ck := range b.jar {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	b.app.handler.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(b.jar, ck.Name)
			continue
		}
		b.jar[ck.Name] = ck
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) postMultipart(path string, fields map[string]string, imageNames ...string) *httptest.ResponseRecorder {
	b.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(b.t, mw.WriteField(k, v))
	}
	for _, name := range imageNames {
		fw, err := mw.CreateFormFile("image", name)
		require.NoError(b.t, err)
		_, err = fw.Write([]byte("image-bytes"))
		require.NoError(b.t, err)
	}
	require.NoError(b.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}

// follow issues a GET for the redirect target of the previous response.
func (b *browser) follow(w *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	b.t.Helper()
	loc := w.Header().Get("Location")
	require.NotEmpty(b.t, loc, "response is not a redirect")
	return b.get(loc)
}

// register signs up a fresh user and leaves the browser logged in.
func (b *browser) register(username string) {
	b.t.Helper()
	w := b.postForm("/register", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {"hunter22"},
	})
	require.Equal(b.t, http.StatusFound, w.Code)
	require.Equal(b.t, "/campgrounds", w.Header().Get("Location"))
}
