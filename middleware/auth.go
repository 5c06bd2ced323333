package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"payyourfriends/database"
	"payyourfriends/models"
	"payyourfriends/utils"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// Identity is what a verified bearer token says about its holder.
type Identity struct {
	Email string
	Name  string
}

// Verifier checks a bearer token.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// MemberLookup maps a verified email to its group membership.
type MemberLookup interface {
	LookupMember(ctx context.Context, email string) (models.Member, error)
}

// FirebaseVerifier accepts Firebase ID tokens.
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(ctx context.Context, app *firebase.App) (*FirebaseVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Identity{}, err
	}
	email, _ := tok.Claims["email"].(string)
	if email == "" {
		return Identity{}, errors.New("token has no email claim")
	}
	name, _ := tok.Claims["name"].(string)
	return Identity{Email: email, Name: name}, nil
}

// JWTVerifier accepts HS256 tokens issued by utils.GenerateToken.
type JWTVerifier struct {
	secret string
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (Identity, error) {
	claims, err := utils.ParseToken(v.secret, token)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Email: claims.Email, Name: claims.Name}, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// AuthRequired verifies the bearer token and loads the caller's group
// membership into the context.
func AuthRequired(verifier Verifier, members MemberLookup, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.DebugContext(c.Request.Context(), "token rejected", "error", err)
			utils.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		member, err := members.LookupMember(c.Request.Context(), identity.Email)
		if errors.Is(err, database.ErrMemberUnknown) {
			utils.Forbidden(c, "You are not a member of any group")
			c.Abort()
			return
		}
		if err != nil {
			logger.ErrorContext(c.Request.Context(), "member lookup failed", "email", identity.Email, "error", err)
			utils.InternalError(c, "Failed to load member")
			c.Abort()
			return
		}
		if member.Name == "" {
			member.Name = models.FirstName(identity.Name)
		}
		if member.Name == "" {
			utils.Forbidden(c, "Your account has no display name")
			c.Abort()
			return
		}

		utils.SetCurrentMember(c, member)
		c.Next()
	}
}
