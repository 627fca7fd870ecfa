package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	gh "github.com/google/go-github/v43/github"
	"golang.org/x/oauth2"

	"starcleaner/internal/domain"
	"starcleaner/internal/logger"
)

// MaxPerPage is the largest page size the starred endpoint accepts
const MaxPerPage = 100

// Client is the remote API used by the application
type Client interface {
	// Validate checks the credential and returns the login it belongs to
	Validate(ctx context.Context) (string, error)
	// FetchPage returns one page of starred repositories and whether another
	// page may follow
	FetchPage(ctx context.Context, page, perPage int, sort domain.Sort) ([]domain.Repository, bool, error)
	Unstar(ctx context.Context, ref domain.RepoRef) error
	// UnstarMany unstars refs one after another, returning one result per ref
	// in input order
	UnstarMany(ctx context.Context, refs []domain.RepoRef) []UnstarResult
	// Forget drops anything cached for this credential
	Forget()
}

// UnstarResult is the outcome of one unstar in a batch
type UnstarResult struct {
	Ref domain.RepoRef
	Err error
}

// Factory builds a client for a credential
type Factory func(token string) (Client, error)

// api is the subset of go-github this package calls
type api interface {
	CurrentUser(ctx context.Context) (*gh.User, *gh.Response, error)
	ListStarred(ctx context.Context, opts *gh.ActivityListStarredOptions) ([]*gh.StarredRepository, *gh.Response, error)
	Unstar(ctx context.Context, owner, repo string) (*gh.Response, error)
}

// realAPI wraps the go-github client to implement api
type realAPI struct {
	inner *gh.Client
}

func (a *realAPI) CurrentUser(ctx context.Context) (*gh.User, *gh.Response, error) {
	return a.inner.Users.Get(ctx, "")
}

func (a *realAPI) ListStarred(ctx context.Context, opts *gh.ActivityListStarredOptions) ([]*gh.StarredRepository, *gh.Response, error) {
	return a.inner.Activity.ListStarred(ctx, "", opts)
}

func (a *realAPI) Unstar(ctx context.Context, owner, repo string) (*gh.Response, error) {
	return a.inner.Activity.Unstar(ctx, owner, repo)
}

type options struct {
	baseURL    string
	httpClient *http.Client
	identities *IdentityCache
	timeout    time.Duration
}

// Option customizes a Service
type Option func(*options)

// WithBaseURL points the client at another API root, e.g. GitHub Enterprise or a test server
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithHTTPClient sets the transport the oauth2 client wraps
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithIdentityCache shares validated logins between clients
func WithIdentityCache(c *IdentityCache) Option {
	return func(o *options) { o.identities = c }
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// Service implements Client on top of go-github
type Service struct {
	api        api
	token      string
	identities *IdentityCache
	timeout    time.Duration
	log        *logger.Logger
}

// New creates a client authenticated with token. It fails with a
// ConfigError when the token or options are malformed; no request is made.
func New(token string, opts ...Option) (*Service, error) {
	if err := checkToken(token); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	ctx := context.Background()
	if o.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	inner := gh.NewClient(oauth2.NewClient(ctx, ts))

	if o.baseURL != "" {
		base, err := url.Parse(o.baseURL)
		if err != nil || base.Scheme == "" || base.Host == "" {
			return nil, &ConfigError{Reason: fmt.Sprintf("invalid API base URL %q", o.baseURL)}
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		inner.BaseURL = base
	}

	return newService(&realAPI{inner: inner}, token, o), nil
}

func newService(a api, token string, o options) *Service {
	return &Service{
		api:        a,
		token:      token,
		identities: o.identities,
		timeout:    o.timeout,
		log:        logger.Named("github"),
	}
}

// NewFactory returns a Factory that applies opts to every client
func NewFactory(opts ...Option) Factory {
	return func(token string) (Client, error) {
		s, err := New(token, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func checkToken(token string) error {
	if token == "" {
		return &ConfigError{Reason: "empty token"}
	}
	if strings.IndexFunc(token, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return &ConfigError{Reason: "token contains whitespace or control characters"}
	}
	return nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// Validate fetches the authenticated user. Server-side failures are
// reported as TransportError since they say nothing about the token.
func (s *Service) Validate(ctx context.Context) (string, error) {
	if login, ok := s.identities.Get(s.token); ok {
		s.log.Debug().Str("login", login).Msg("identity cache hit")
		return login, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, resp, err := s.api.CurrentUser(ctx)
	if err := classify("validate token", resp, err); err != nil {
		var re *RemoteError
		if errors.As(err, &re) && re.Status >= http.StatusInternalServerError {
			return "", &TransportError{Op: re.Op, Err: err}
		}
		s.log.Warn().Err(err).Msg("token validation failed")
		return "", err
	}

	login := user.GetLogin()
	if login == "" {
		return "", &RemoteError{Op: "validate token", Status: resp.StatusCode, Message: "response has no login"}
	}
	s.identities.Set(s.token, login)
	return login, nil
}

// FetchPage lists one page of the authenticated user's stars.
// hasMore is true iff the page came back full, so a list whose length is
// an exact multiple of perPage ends with one empty page.
func (s *Service) FetchPage(ctx context.Context, page, perPage int, sort domain.Sort) ([]domain.Repository, bool, error) {
	if page < 1 {
		return nil, false, &ConfigError{Reason: fmt.Sprintf("page must be >= 1, got %d", page)}
	}
	if perPage < 1 || perPage > MaxPerPage {
		return nil, false, &ConfigError{Reason: fmt.Sprintf("per_page must be within 1..%d, got %d", MaxPerPage, perPage)}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	opts := &gh.ActivityListStarredOptions{
		Sort:      sort.Field.APIValue(),
		Direction: sort.Direction.APIValue(),
		ListOptions: gh.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}
	starred, resp, err := s.api.ListStarred(ctx, opts)
	if err := classify("fetch starred repositories", resp, err); err != nil {
		if IsAuthError(err) {
			s.identities.Invalidate(s.token)
		}
		return nil, false, err
	}

	repos := make([]domain.Repository, 0, len(starred))
	for i, sr := range starred {
		repos = append(repos, toRepository(sr, domain.StarredOrder(page, perPage, i)))
	}

	s.log.Debug().Int("page", page).Int("count", len(repos)).Str("sort", sort.String()).Msg("fetched starred page")
	return repos, len(starred) == perPage, nil
}

// Unstar removes the star from ref. Unstarring something that is not
// starred succeeds as well.
func (s *Service) Unstar(ctx context.Context, ref domain.RepoRef) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.api.Unstar(ctx, ref.Owner, ref.Name)
	if err := classify("unstar "+ref.String(), resp, err); err != nil {
		if IsAuthError(err) {
			s.identities.Invalidate(s.token)
		}
		s.log.Warn().Err(err).Str("repo", ref.String()).Msg("unstar failed")
		return err
	}

	s.log.Info().Str("repo", ref.String()).Msg("unstarred")
	return nil
}

// UnstarMany unstars sequentially to stay clear of secondary rate limits.
// After an AuthError the remaining refs are not sent and carry that error.
func (s *Service) UnstarMany(ctx context.Context, refs []domain.RepoRef) []UnstarResult {
	results := make([]UnstarResult, 0, len(refs))

	var authErr error
	for _, ref := range refs {
		if authErr != nil {
			results = append(results, UnstarResult{Ref: ref, Err: authErr})
			continue
		}
		err := s.Unstar(ctx, ref)
		if IsAuthError(err) {
			authErr = err
		}
		results = append(results, UnstarResult{Ref: ref, Err: err})
	}

	return results
}

// Forget drops the cached identity of this credential
func (s *Service) Forget() {
	s.identities.Invalidate(s.token)
}

func toRepository(sr *gh.StarredRepository, order int) domain.Repository {
	r := sr.GetRepository()
	repo := domain.Repository{
		ID:           r.GetID(),
		Owner:        r.GetOwner().GetLogin(),
		Name:         r.GetName(),
		FullName:     r.GetFullName(),
		Description:  r.GetDescription(),
		Language:     r.GetLanguage(),
		License:      r.GetLicense().GetName(),
		Stars:        r.GetStargazersCount(),
		Forks:        r.GetForksCount(),
		OpenIssues:   r.GetOpenIssuesCount(),
		Topics:       r.Topics,
		UpdatedAt:    r.GetUpdatedAt().Time,
		HTMLURL:      r.GetHTMLURL(),
		StarredOrder: order,
	}
	if r.PushedAt != nil {
		t := r.PushedAt.Time
		repo.PushedAt = &t
	}
	if sr.StarredAt != nil {
		t := sr.StarredAt.Time
		repo.StarredAt = &t
	}
	return repo
}
