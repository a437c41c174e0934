package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"cardvault/pkg/database"
)

var (
	ErrBadCredentials   = errors.New("bad credentials")
	ErrNotConfirmed     = errors.New("user not confirmed")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrMissingAuthToken = errors.New("no id token in auth result")
)

// Cognito is the part of the identity provider client the repo uses.
type Cognito interface {
	InitiateAuth(context.Context, *cip.InitiateAuthInput, ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	AdminGetUser(context.Context, *cip.AdminGetUserInput, ...func(*cip.Options)) (*cip.AdminGetUserOutput, error)
	SignUp(context.Context, *cip.SignUpInput, ...func(*cip.Options)) (*cip.SignUpOutput, error)
}

// Repo is the user directory, backed by a Cognito user pool.
type Repo struct {
	Client     Cognito
	UserPoolID string
	ClientID   string
}

func NewRepo(client Cognito, userPoolID, clientID string) *Repo {
	return &Repo{Client: client, UserPoolID: userPoolID, ClientID: clientID}
}

// Login returns the identity token for the given credentials.
func (r *Repo) Login(ctx context.Context, email, password string) (string, error) {
	out, err := r.Client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		ClientId: aws.String(r.ClientID),
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		switch database.ErrorCode(err) {
		case "NotAuthorizedException", "UserNotFoundException":
			return "", fmt.Errorf("login: %w", ErrBadCredentials)
		case "UserNotConfirmedException":
			return "", fmt.Errorf("login: %w", ErrNotConfirmed)
		}
		return "", fmt.Errorf("login: %w", err)
	}
	if out.AuthenticationResult == nil || out.AuthenticationResult.IdToken == nil {
		return "", ErrMissingAuthToken
	}
	return *out.AuthenticationResult.IdToken, nil
}

// Exists reports whether a user with that email is already in the pool.
func (r *Repo) Exists(ctx context.Context, email string) (bool, error) {
	_, err := r.Client.AdminGetUser(ctx, &cip.AdminGetUserInput{
		UserPoolId: aws.String(r.UserPoolID),
		Username:   aws.String(email),
	})
	if err == nil {
		return true, nil
	}
	if database.ErrorCode(err) == "UserNotFoundException" {
		return false, nil
	}
	return false, fmt.Errorf("get user: %w", err)
}

func (r *Repo) SignUp(ctx context.Context, email, password string) error {
	_, err := r.Client.SignUp(ctx, &cip.SignUpInput{
		ClientId: aws.String(r.ClientID),
		Username: aws.String(email),
		Password: aws.String(password),
	})
	if err != nil {
		if database.ErrorCode(err) == "InvalidPasswordException" {
			return fmt.Errorf("sign up: %w", ErrInvalidPassword)
		}
		return fmt.Errorf("sign up: %w", err)
	}
	return nil
}
