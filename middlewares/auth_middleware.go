package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"gin-sessiongate/constants"
	"gin-sessiongate/dto"
	"gin-sessiongate/services"
)

// State is where a request ended up in the gatekeeper.
type State int

const (
	Unauthenticated State = iota
	PathExempt
	TokenMissing
	SignatureInvalid
	Expired
	Revoked
	Authenticated
)

func (s State) String() string {
	switch s {
	case PathExempt:
		return "path_exempt"
	case TokenMissing:
		return "token_missing"
	case SignatureInvalid:
		return "signature_invalid"
	case Expired:
		return "expired"
	case Revoked:
		return "revoked"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Verdict ends the check sequence. Only PathExempt and Authenticated let the
// request through.
type Verdict struct {
	State  State
	Reason string
}

func (v *Verdict) Allowed() bool {
	return v.State == PathExempt || v.State == Authenticated
}

// Session accumulates what the checks learn about a request.
type Session struct {
	Token  string
	Claims *services.Claims
}

// Check inspects the request and either returns a verdict, which stops the
// sequence, or nil to hand over to the next check. An error aborts the
// request with a server error.
type Check func(ctx *gin.Context, session *Session) (*Verdict, error)

type GatekeeperConfig struct {
	PublicPrefixes []string
	CookieName     string
}

type Gatekeeper struct {
	checks []Check
	logger logrus.FieldLogger
}

// NewGatekeeper wires the standard sequence: public path allowlist, token
// extraction, signature/expiry verification and the revocation lookup.
func NewGatekeeper(cfg GatekeeperConfig, tokenService services.ITokenService, revocationService services.IRevocationService, logger logrus.FieldLogger) *Gatekeeper {
	protected := fmt.Sprintf(constants.ErrProtected, cfg.CookieName)
	return NewGatekeeperWithChecks(logger,
		PublicPathCheck(cfg.PublicPrefixes),
		TokenExtractCheck(cfg.CookieName, protected),
		VerifyCheck(tokenService, protected),
		RevocationCheck(revocationService),
	)
}

func NewGatekeeperWithChecks(logger logrus.FieldLogger, checks ...Check) *Gatekeeper {
	return &Gatekeeper{checks: checks, logger: logger}
}

// Decide runs the checks in order. Passing every check means Authenticated.
func (g *Gatekeeper) Decide(ctx *gin.Context) (*Verdict, *Session, error) {
	session := &Session{}
	for _, check := range g.checks {
		verdict, err := check(ctx, session)
		if err != nil {
			return nil, session, err
		}
		if verdict != nil {
			return verdict, session, nil
		}
	}
	return &Verdict{State: Authenticated}, session, nil
}

func (g *Gatekeeper) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		verdict, session, err := g.Decide(ctx)
		if err != nil {
			g.logger.WithError(err).WithField("path", ctx.Request.URL.Path).Error("gatekeeper failed")
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, dto.Response{
				Code:   constants.CodeInternal,
				Result: constants.ErrUnexpected,
			})
			return
		}

		if !verdict.Allowed() {
			g.logger.WithFields(logrus.Fields{
				"path":  ctx.Request.URL.Path,
				"state": verdict.State.String(),
			}).Debug("request rejected")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.Response{
				Code:   constants.CodeUnauthorized,
				Result: verdict.Reason,
			})
			return
		}

		if verdict.State == Authenticated {
			ctx.Set(constants.ContextClaims, session.Claims)
			ctx.Set(constants.ContextToken, session.Token)
		}
		ctx.Next()
	}
}

func PublicPathCheck(prefixes []string) Check {
	return func(ctx *gin.Context, _ *Session) (*Verdict, error) {
		path := ctx.Request.URL.Path
		for _, prefix := range prefixes {
			if prefix != "" && strings.HasPrefix(path, prefix) {
				return &Verdict{State: PathExempt}, nil
			}
		}
		return nil, nil
	}
}

// TokenExtractCheck reads the token from the session cookie, falling back to
// an "Authorization: Bearer" header.
func TokenExtractCheck(cookieName, reason string) Check {
	return func(ctx *gin.Context, session *Session) (*Verdict, error) {
		if cookie, err := ctx.Cookie(cookieName); err == nil && cookie != "" {
			session.Token = cookie
			return nil, nil
		}

		header := ctx.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && strings.TrimSpace(token) != "" {
			session.Token = strings.TrimSpace(token)
			return nil, nil
		}
		return &Verdict{State: TokenMissing, Reason: reason}, nil
	}
}

func VerifyCheck(tokenService services.ITokenService, reason string) Check {
	return func(_ *gin.Context, session *Session) (*Verdict, error) {
		claims, err := tokenService.Verify(session.Token)
		if err != nil {
			if errors.Is(err, services.ErrExpired) {
				return &Verdict{State: Expired, Reason: reason}, nil
			}
			return &Verdict{State: SignatureInvalid, Reason: reason}, nil
		}
		session.Claims = claims
		return nil, nil
	}
}

func RevocationCheck(revocationService services.IRevocationService) Check {
	return func(ctx *gin.Context, session *Session) (*Verdict, error) {
		revoked, err := revocationService.IsRevoked(ctx.Request.Context(), session.Token)
		if err != nil {
			return nil, err
		}
		if revoked {
			return &Verdict{State: Revoked, Reason: constants.ErrTokenRevoked}, nil
		}
		return nil, nil
	}
}

// ClaimsFromContext returns the claims stored by the gatekeeper.
func ClaimsFromContext(ctx *gin.Context) (*services.Claims, bool) {
	value, exists := ctx.Get(constants.ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*services.Claims)
	return claims, ok && claims != nil
}

func TokenFromContext(ctx *gin.Context) (string, bool) {
	token := ctx.GetString(constants.ContextToken)
	return token, token != ""
}
