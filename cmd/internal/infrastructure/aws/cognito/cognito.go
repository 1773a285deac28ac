package cognitoclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// User is the default user struct for all basic Cognito operations.
type User struct {
	Email    string
	Password string
	FullName string
}

// UserConfirmation is the default structure for approving e-mail verification.
type UserConfirmation struct {
	Email string
	Code  string
}

// UserLogin defines the standard structure for logging in to the application.
type UserLogin struct {
	Email    string
	Password string
}

// AuthResult represents the tokens Cognito hands out on sign in or refresh.
// RefreshToken is only set on sign in.
type AuthResult struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type CognitoInterface interface {
	SignUp(ctx context.Context, user *User) (string, error)
	SignIn(ctx context.Context, user *UserLogin) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	GlobalSignOut(ctx context.Context, accessToken string) error
	ConfirmAccount(ctx context.Context, user *UserConfirmation) error
	ResendConfirmation(ctx context.Context, email string) error
	AdminDeleteUser(ctx context.Context, sub string) error
}

type cognitoClient struct {
	cognitoClient *cognito.Client
	appClientID   string
	userPoolID    string
}

func NewCognitoClient(ctx context.Context, region, userPoolID, appClientID string) (CognitoInterface, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	return &cognitoClient{
		cognitoClient: cognito.NewFromConfig(cfg),
		appClientID:   appClientID,
		userPoolID:    userPoolID,
	}, nil
}

// SignUp creates a new user row on Cognito and return its "sub" (the UUID)
func (c *cognitoClient) SignUp(ctx context.Context, user *User) (string, error) {
	out, err := c.cognitoClient.SignUp(ctx, &cognito.SignUpInput{
		ClientId: aws.String(c.appClientID),
		Username: aws.String(user.Email),
		Password: aws.String(user.Password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(user.Email)},
			{Name: aws.String("name"), Value: aws.String(user.FullName)},
		},
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.UserSub), nil
}

// SignIn signs the user in with the plain USER_PASSWORD_AUTH flow.
func (c *cognitoClient) SignIn(ctx context.Context, user *UserLogin) (*AuthResult, error) {
	out, err := c.cognitoClient.InitiateAuth(ctx, &cognito.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": user.Email,
			"PASSWORD": user.Password,
		},
		ClientId: aws.String(c.appClientID),
	})
	if err != nil {
		return nil, err
	}
	return toAuthResult(out)
}

// Refresh trades a refresh token for a new ID and access token.
func (c *cognitoClient) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	out, err := c.cognitoClient.InitiateAuth(ctx, &cognito.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeRefreshTokenAuth,
		AuthParameters: map[string]string{
			"REFRESH_TOKEN": refreshToken,
		},
		ClientId: aws.String(c.appClientID),
	})
	if err != nil {
		return nil, err
	}
	return toAuthResult(out)
}

// GlobalSignOut signs out all the user session in all devices.
// In other words, it invalidates all the existing refresh tokens.
func (c *cognitoClient) GlobalSignOut(ctx context.Context, accessToken string) error {
	_, err := c.cognitoClient.GlobalSignOut(ctx, &cognito.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	})
	return err
}

// ConfirmAccount is used to verify the user's e-mail address
func (c *cognitoClient) ConfirmAccount(ctx context.Context, user *UserConfirmation) error {
	_, err := c.cognitoClient.ConfirmSignUp(ctx, &cognito.ConfirmSignUpInput{
		Username:         aws.String(user.Email),
		ConfirmationCode: aws.String(user.Code),
		ClientId:         aws.String(c.appClientID),
	})
	return err
}

// ResendConfirmation resends the verification code to the provided e-mail
func (c *cognitoClient) ResendConfirmation(ctx context.Context, email string) error {
	_, err := c.cognitoClient.ResendConfirmationCode(ctx, &cognito.ResendConfirmationCodeInput{
		Username: aws.String(email),
		ClientId: aws.String(c.appClientID),
	})
	return err
}

// AdminDeleteUser removes an identity from the pool. Cognito accepts the
// sub as username when sign-in is by e-mail alias.
func (c *cognitoClient) AdminDeleteUser(ctx context.Context, sub string) error {
	_, err := c.cognitoClient.AdminDeleteUser(ctx, &cognito.AdminDeleteUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(sub),
	})
	return err
}

func toAuthResult(out *cognito.InitiateAuthOutput) (*AuthResult, error) {
	if out.AuthenticationResult == nil {
		if out.ChallengeName != "" {
			return nil, fmt.Errorf("unsupported auth challenge %s", out.ChallengeName)
		}
		return nil, errors.New("cognito returned no authentication result")
	}

	res := out.AuthenticationResult
	return &AuthResult{
		IDToken:      aws.ToString(res.IdToken),
		AccessToken:  aws.ToString(res.AccessToken),
		RefreshToken: aws.ToString(res.RefreshToken),
		ExpiresIn:    int64(res.ExpiresIn),
	}, nil
}
