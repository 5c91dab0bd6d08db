package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"insuragent/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore-backed conversation store.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) conversationsCol() *firestore.CollectionRef {
	return s.client.Collection("conversations")
}

func (s *Store) threadDoc(id domain.ThreadID) *firestore.DocumentRef {
	return s.conversationsCol().Doc(string(id))
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type messageDoc struct {
	Role      string    `firestore:"role"`
	Content   string    `firestore:"content"`
	CreatedAt time.Time `firestore:"created_at"`
}

type conversationDoc struct {
	Messages    []messageDoc `firestore:"messages"`
	Age         *int         `firestore:"age"`
	Location    *string      `firestore:"location"`
	Income      *int         `firestore:"income"`
	DialogState string       `firestore:"dialog_state"`
	CreatedAt   time.Time    `firestore:"created_at"`
	UpdatedAt   time.Time    `firestore:"updated_at"`
}

// ─────────────────────────────────────────
// ConversationStore implementation
// ─────────────────────────────────────────

func (s *Store) Get(ctx context.Context, id domain.ThreadID) (*domain.Conversation, error) {
	snap, err := s.threadDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrThreadNotFound
		}
		return nil, fmt.Errorf("firestore Get: %w", err)
	}

	var doc conversationDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore Get decode: %w", err)
	}

	conv := &domain.Conversation{
		ThreadID: id,
		UserInfo: domain.UserInfo{
			Age:      doc.Age,
			Location: doc.Location,
			Income:   doc.Income,
		},
		DialogState: domain.DialogState(doc.DialogState),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	for _, m := range doc.Messages {
		conv.Messages = append(conv.Messages, domain.Message{
			Role:      domain.Role(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return conv, nil
}

func (s *Store) Put(ctx context.Context, conv *domain.Conversation) error {
	doc := conversationDoc{
		Age:         conv.UserInfo.Age,
		Location:    conv.UserInfo.Location,
		Income:      conv.UserInfo.Income,
		DialogState: string(conv.DialogState),
		CreatedAt:   conv.CreatedAt,
		UpdatedAt:   conv.UpdatedAt,
	}
	for _, m := range conv.Messages {
		doc.Messages = append(doc.Messages, messageDoc{
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	// Full replace: the conversation record is the unit of persistence.
	if _, err := s.threadDoc(conv.ThreadID).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore Put: %w", err)
	}
	return nil
}

func (s *Store) ListThreadIDs(ctx context.Context) ([]domain.ThreadID, error) {
	iter := s.conversationsCol().Select().Documents(ctx)
	defer iter.Stop()

	var out []domain.ThreadID
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListThreadIDs: %w", err)
		}
		out = append(out, domain.ThreadID(snap.Ref.ID))
	}
	return out, nil
}
