package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RegisterMemberMessage promotes an onboarding account into a member.
type RegisterMemberMessage struct {
	AccountID string `json:"account_id"`
	Nickname  string `json:"nickname"`
	UseHashid bool
}

func (e RegisterMemberMessage) Type() string { return "member.register" }

// RegisterMemberHandler creates the Member row for an account and flips the
// account's member flag, in one transaction. Running it twice for the same
// account fails on the unique account_id constraint.
type RegisterMemberHandler struct {
	repo RepositoryManager
	sink ActivitySink
}

func NewRegisterMemberHandler(repo RepositoryManager) *RegisterMemberHandler {
	return &RegisterMemberHandler{
		repo: repo,
		sink: NormalizeActivitySink(nil),
	}
}

// WithActivitySink sets the sink that receives the registration event.
func (h *RegisterMemberHandler) WithActivitySink(sink ActivitySink) *RegisterMemberHandler {
	h.sink = NormalizeActivitySink(sink)
	return h
}

func (h *RegisterMemberHandler) Execute(ctx context.Context, event RegisterMemberMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during member registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterMemberHandler) execute(ctx context.Context, event RegisterMemberMessage) error {
	accountID, err := uuid.Parse(event.AccountID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid account id")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account, err := h.repo.Accounts().GetByIDTx(ctx, tx, event.AccountID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrAccountNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not load account")
		}

		if account.IsMember() {
			return goerrors.New("account is already a member", goerrors.CategoryConflict).
				WithTextCode("ENTITY_ALREADY_EXISTS")
		}

		member := &Member{
			AccountID: accountID,
			Nickname:  event.Nickname,
		}
		if event.UseHashid {
			if id, err := hashid.NewUUID(accountID.String()); err == nil {
				member.ID = id
			}
		}
		if member.ID == uuid.Nil {
			member.ID = uuid.New()
		}

		if _, err = h.repo.Members().CreateTx(ctx, tx, member); err != nil {
			if isUniqueViolation(err) {
				return goerrors.Wrap(err, goerrors.CategoryConflict, "member already registered for account").
					WithTextCode("ENTITY_ALREADY_EXISTS")
			}
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create member")
		}

		if err = h.repo.Accounts().MarkAsMemberTx(ctx, tx, accountID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not flag account as member")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "member registration transaction failed")
	}

	_ = h.sink.Record(ctx, ActivityEvent{
		EventType:  ActivityEventMemberRegistered,
		AccountID:  event.AccountID,
		OccurredAt: time.Now(),
	})

	return nil
}
