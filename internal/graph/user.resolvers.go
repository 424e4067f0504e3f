package graph

import (
	"context"
	"time"

	"paulapastas-be/internal/auth"
	"paulapastas-be/internal/graph/model"
	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/transport"
	"paulapastas-be/internal/user"
	"paulapastas-be/internal/utils"

	"go.uber.org/zap"
)

func (r *Resolver) startSession(ctx context.Context, sess *user.Session) *model.AuthPayload {
	transport.SetCookie(ctx, auth.AccessCookie(sess.Token, r.SessionTTL, r.SecureCookies))
	return &model.AuthPayload{Token: sess.Token, User: MapUserToGraphQL(sess.User)}
}

func (r *mutationResolver) Register(ctx context.Context, input model.RegisterInput) (*model.AuthPayload, error) {
	log := logger.FromCtx(ctx)

	sess, err := r.UserSvc.Register(ctx, user.RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	})
	if err != nil {
		log.Warn("register failed", zap.String("email", input.Email), zap.Error(err))
		return nil, err
	}

	log.Info("user registered", zap.Uint("user_id", sess.User.ID))
	return r.startSession(ctx, sess), nil
}

func (r *mutationResolver) Login(ctx context.Context, input model.LoginInput) (*model.AuthPayload, error) {
	sess, err := r.UserSvc.Login(ctx, user.LoginInput{Email: input.Email, Password: input.Password})
	if err != nil {
		return nil, err
	}
	return r.startSession(ctx, sess), nil
}

// Logout always clears the cookie, whatever state the old token is in.
func (r *mutationResolver) Logout(ctx context.Context) (bool, error) {
	transport.SetCookie(ctx, auth.AccessCookie("", -time.Second, r.SecureCookies))
	return true, nil
}

func (r *queryResolver) Me(ctx context.Context) (*model.User, error) {
	id, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	u, err := r.UserSvc.Me(ctx, id)
	if err != nil {
		return nil, err
	}
	return MapUserToGraphQL(*u), nil
}
