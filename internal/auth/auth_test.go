package auth

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/fogfish/it"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"cardvault/pkg/logger"
)

func init() { gin.SetMode(gin.TestMode) }

func token(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub, "email": "a@b.c"})
	s, err := tok.SignedString([]byte("any-key-the-gateway-checked"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestParseUnverifiedReadsSubject(t *testing.T) {
	claims, err := ParseUnverified(token(t, "user-1"))

	it.Ok(t).
		IfNil(err).
		If(claims.UserID()).Should().Equal("user-1").
		If(claims.Email).Should().Equal("a@b.c")
}

func TestParseUnverifiedRejectsGarbage(t *testing.T) {
	_, err := ParseUnverified("not-a-token")
	it.Ok(t).IfNotNil(err)

	_, err = ParseUnverified(token(t, ""))
	it.Ok(t).IfTrue(errors.Is(err, ErrNoSubject))
}

func protected() *gin.Engine {
	r := gin.New()
	r.GET("/me", Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sub": UserID(c)})
	})
	return r
}

func TestMiddleware(t *testing.T) {
	for name, tc := range map[string]struct {
		header string
		status int
	}{
		"missing":      {"", http.StatusUnauthorized},
		"garbage":      {"Bearer abc", http.StatusUnauthorized},
		"bearer":       {"Bearer " + token(t, "user-1"), http.StatusOK},
		"lower bearer": {"bearer " + token(t, "user-1"), http.StatusOK},
		"raw token":    {token(t, "user-1"), http.StatusOK},
	} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		protected().ServeHTTP(w, req)

		if w.Code != tc.status {
			t.Fatalf("%s: want=%d got=%d body=%s", name, tc.status, w.Code, w.Body.String())
		}
	}
}

func TestMiddlewareRejectsQueryToken(t *testing.T) {
	w := httptest.NewRecorder()
	protected().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?access_token="+token(t, "user-7"), nil))

	it.Ok(t).
		If(w.Code).Should().Equal(http.StatusUnauthorized).
		If(w.Body.String()).Should().Equal(`{"Message":"JWT token not provided"}`)
}

func TestWSMiddlewareAcceptsQueryToken(t *testing.T) {
	r := gin.New()
	r.GET("/ws", WSMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sub": UserID(c)})
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?access_token="+token(t, "user-7"), nil))

	it.Ok(t).
		If(w.Code).Should().Equal(http.StatusOK).
		If(w.Body.String()).Should().Equal(`{"sub":"user-7"}`)
}

func TestMiddlewareMissingTokenMessage(t *testing.T) {
	w := httptest.NewRecorder()
	protected().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	it.Ok(t).If(w.Body.String()).Should().Equal(`{"Message":"JWT token not provided"}`)
}

//
// identity provider mocks
//

type apiError struct{ code string }

func (e *apiError) Error() string     { return e.code }
func (e *apiError) ErrorCode() string { return e.code }

type cognitoMock struct {
	Cognito
	authErr   error
	getErr    error
	signUpErr error
	signedUp  []string
}

func (m *cognitoMock) InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, opts ...func(*cip.Options)) (*cip.InitiateAuthOutput, error) {
	if m.authErr != nil {
		return nil, m.authErr
	}
	if in.AuthFlow != types.AuthFlowTypeUserPasswordAuth {
		return nil, errors.New("unexpected auth flow")
	}
	id := "id-token-for-" + in.AuthParameters["USERNAME"]
	return &cip.InitiateAuthOutput{AuthenticationResult: &types.AuthenticationResultType{IdToken: &id}}, nil
}

func (m *cognitoMock) AdminGetUser(ctx context.Context, in *cip.AdminGetUserInput, opts ...func(*cip.Options)) (*cip.AdminGetUserOutput, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &cip.AdminGetUserOutput{Username: in.Username}, nil
}

func (m *cognitoMock) SignUp(ctx context.Context, in *cip.SignUpInput, opts ...func(*cip.Options)) (*cip.SignUpOutput, error) {
	if m.signUpErr != nil {
		return nil, m.signUpErr
	}
	m.signedUp = append(m.signedUp, *in.Username)
	return &cip.SignUpOutput{}, nil
}

func serve(mock *cognitoMock, path, body string) *httptest.ResponseRecorder {
	r := gin.New()
	NewHandler(NewRepo(mock, "pool", "client"), logger.Nop()).RegisterRoutes(r.Group("/auth"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body)))
	return w
}

const creds = `{"email":"jace@example.com","password":"hunter22"}`

func TestLogin(t *testing.T) {
	for name, tc := range map[string]struct {
		err    error
		status int
		body   string
	}{
		"ok":            {nil, http.StatusOK, `{"token":"id-token-for-jace@example.com"}`},
		"bad password":  {&apiError{"NotAuthorizedException"}, http.StatusForbidden, `{"error":"Username or password is incorrect."}`},
		"unknown user":  {&apiError{"UserNotFoundException"}, http.StatusForbidden, `{"error":"Username or password is incorrect."}`},
		"not confirmed": {&apiError{"UserNotConfirmedException"}, http.StatusBadRequest, `{"error":"User is not confirmed yet. Please check your email."}`},
		"throttled":     {&apiError{"TooManyRequestsException"}, http.StatusInternalServerError, `{"error":"Something went wrong."}`},
	} {
		w := serve(&cognitoMock{authErr: tc.err}, "/auth/login", creds)
		if w.Code != tc.status || w.Body.String() != tc.body {
			t.Fatalf("%s: want=%d %s got=%d %s", name, tc.status, tc.body, w.Code, w.Body.String())
		}
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	w := serve(&cognitoMock{}, "/auth/login", `{"email":"jace@example.com"}`)
	it.Ok(t).If(w.Code).Should().Equal(http.StatusBadRequest)
}

func TestRegisterCreatesUser(t *testing.T) {
	mock := &cognitoMock{getErr: &apiError{"UserNotFoundException"}}
	w := serve(mock, "/auth/register", creds)

	it.Ok(t).
		If(w.Code).Should().Equal(http.StatusCreated).
		If(mock.signedUp).Should().Equal([]string{"jace@example.com"})
}

func TestRegisterDuplicateEmail(t *testing.T) {
	mock := &cognitoMock{}
	w := serve(mock, "/auth/register", creds)

	it.Ok(t).
		If(w.Code).Should().Equal(http.StatusConflict).
		If(w.Body.String()).Should().Equal(`{"error":"Email address is already in use."}`).
		If(len(mock.signedUp)).Should().Equal(0)
}

func TestRegisterWeakPassword(t *testing.T) {
	mock := &cognitoMock{
		getErr:    &apiError{"UserNotFoundException"},
		signUpErr: &apiError{"InvalidPasswordException"},
	}
	w := serve(mock, "/auth/register", creds)

	it.Ok(t).
		If(w.Code).Should().Equal(http.StatusBadRequest).
		If(w.Body.String()).Should().Equal(`{"error":"Password must be at least 8 characters long."}`)
}

func TestRegisterLookupFailure(t *testing.T) {
	w := serve(&cognitoMock{getErr: &apiError{"InternalErrorException"}}, "/auth/register", creds)
	it.Ok(t).If(w.Code).Should().Equal(http.StatusInternalServerError)
}
