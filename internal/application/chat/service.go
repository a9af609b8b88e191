package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/id"
)

// Events published for chat subscribers.
const (
	EventSent = "chat.sent"
	EventRead = "chat.read"
)

type Service interface {
	Send(ctx context.Context, senderID string, req domain.SendChatRequest) (*domain.ChatMessage, error)
	// Messages returns the caller's traffic, narrowed to the thread with from
	// when set. Messages addressed to the caller move from SENT to DELIVERED.
	Messages(ctx context.Context, callerID, from string) ([]domain.ChatMessage, error)
	MarkRead(ctx context.Context, callerID, messageID string) (*domain.ChatMessage, error)
	Delete(ctx context.Context, callerID, messageID string) error
	// Admins lists the users a non-admin may address.
	Admins(ctx context.Context) ([]domain.User, error)
}

type chatStore interface {
	Put(ctx context.Context, m *domain.ChatMessage) error
	Get(ctx context.Context, messageID string) (*domain.ChatMessage, error)
	ListInvolving(ctx context.Context, userID string) ([]domain.ChatMessage, error)
	ListConversation(ctx context.Context, a, b string) ([]domain.ChatMessage, error)
	UpdateState(ctx context.Context, messageID, state string) error
	Delete(ctx context.Context, messageID string) error
}

type userLookup interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	ListByRole(ctx context.Context, role string) ([]domain.User, error)
}

type publisher interface {
	PublishChat(ctx context.Context, event string, m *domain.ChatMessage) error
}

type service struct {
	repo      chatStore
	users     userLookup
	publisher publisher
}

type ServiceDeps struct {
	ChatRepo  chatStore
	UserRepo  userLookup
	Publisher publisher
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.ChatRepo, users: deps.UserRepo, publisher: deps.Publisher}
}

func (s *service) Send(ctx context.Context, senderID string, req domain.SendChatRequest) (*domain.ChatMessage, error) {
	if req.To == senderID {
		return nil, fmt.Errorf("cannot message yourself: %w", domain.ErrBadRequest)
	}
	sender, err := s.users.Get(ctx, senderID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.users.Get(ctx, req.To)
	if err != nil {
		return nil, err
	}
	if !sender.IsAdmin() && !receiver.IsAdmin() {
		return nil, fmt.Errorf("messages can only be sent to an admin: %w", domain.ErrForbidden)
	}
	now := time.Now().UTC()
	m := &domain.ChatMessage{
		MessageID:  id.New(),
		SenderID:   senderID,
		ReceiverID: receiver.UserID,
		Message:    req.Message,
		State:      domain.ChatSent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Put(ctx, m); err != nil {
		return nil, err
	}
	s.publish(ctx, EventSent, m)
	return m, nil
}

func (s *service) Messages(ctx context.Context, callerID, from string) ([]domain.ChatMessage, error) {
	var (
		msgs []domain.ChatMessage
		err  error
	)
	if from == "" {
		msgs, err = s.repo.ListInvolving(ctx, callerID)
	} else {
		msgs, err = s.repo.ListConversation(ctx, callerID, from)
	}
	if err != nil {
		return nil, err
	}
	for i := range msgs {
		m := &msgs[i]
		if m.ReceiverID != callerID || m.State != domain.ChatSent {
			continue
		}
		if err := s.repo.UpdateState(ctx, m.MessageID, domain.ChatDelivered); err != nil {
			slog.Warn("failed to mark message delivered", "message_id", m.MessageID, "err", err)
			continue
		}
		m.State = domain.ChatDelivered
	}
	return msgs, nil
}

func (s *service) MarkRead(ctx context.Context, callerID, messageID string) (*domain.ChatMessage, error) {
	m, err := s.repo.Get(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if m.ReceiverID != callerID {
		return nil, fmt.Errorf("you are not receiver of this message: %w", domain.ErrForbidden)
	}
	if m.State == domain.ChatRead {
		return m, nil
	}
	if err := s.repo.UpdateState(ctx, messageID, domain.ChatRead); err != nil {
		return nil, err
	}
	m.State = domain.ChatRead
	s.publish(ctx, EventRead, m)
	return m, nil
}

func (s *service) Delete(ctx context.Context, callerID, messageID string) error {
	m, err := s.repo.Get(ctx, messageID)
	if err != nil {
		return err
	}
	if m.SenderID != callerID {
		return fmt.Errorf("you are not owner of this message: %w", domain.ErrForbidden)
	}
	return s.repo.Delete(ctx, messageID)
}

func (s *service) Admins(ctx context.Context) ([]domain.User, error) {
	return s.users.ListByRole(ctx, domain.RoleAdmin)
}

func (s *service) publish(ctx context.Context, event string, m *domain.ChatMessage) {
	if err := s.publisher.PublishChat(ctx, event, m); err != nil {
		slog.Warn("failed to publish chat event", "event", event, "message_id", m.MessageID, "err", err)
	}
}
