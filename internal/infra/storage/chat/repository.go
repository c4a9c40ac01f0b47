package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TelegramThread/internal/domain"
	"github.com/m04kA/SMC-TelegramThread/pkg/psqlbuilder"
)

const tableChats = "chats"

// Repository репозиторий чатов, которые общались с ботом
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория чатов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создаёт чат или обновляет его тип, название и username
// Флаг подписки существующего чата не меняется
func (r *Repository) Upsert(ctx context.Context, chat *domain.Chat) error {
	query, args, err := psqlbuilder.Insert(tableChats).
		Columns("chat_id", "chat_type", "title", "username", "subscribed").
		Values(chat.ChatID, chat.Type, chat.Title, chat.Username, chat.Subscribed).
		Suffix(`ON CONFLICT (chat_id) DO UPDATE SET
			chat_type = EXCLUDED.chat_type,
			title = EXCLUDED.title,
			username = EXCLUDED.username,
			updated_at = NOW()
		RETURNING subscribed, created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&chat.Subscribed, &chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// SetSubscribed включает или выключает рассылку для чата
func (r *Repository) SetSubscribed(ctx context.Context, chatID int64, subscribed bool) error {
	query, args, err := psqlbuilder.Update(tableChats).
		Set("subscribed", subscribed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"chat_id": chatID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetSubscribed - build update query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetSubscribed - execute update: %v", ErrExecQuery, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetSubscribed - rows affected: %v", ErrExecQuery, err)
	}
	if rows == 0 {
		return ErrChatNotFound
	}

	return nil
}

// GetByID получает чат по chat_id
func (r *Repository) GetByID(ctx context.Context, chatID int64) (*domain.Chat, error) {
	query, args, err := psqlbuilder.Select(
		"chat_id",
		"chat_type",
		"title",
		"username",
		"subscribed",
		"created_at",
		"updated_at",
	).
		From(tableChats).
		Where(squirrel.Eq{"chat_id": chatID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var chat domain.Chat
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&chat.ChatID,
		&chat.Type,
		&chat.Title,
		&chat.Username,
		&chat.Subscribed,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan chat: %v", ErrScanRow, err)
	}

	return &chat, nil
}

// ListSubscribedIDs возвращает chat_id всех подписанных чатов
func (r *Repository) ListSubscribedIDs(ctx context.Context) ([]int64, error) {
	query, args, err := psqlbuilder.Select("chat_id").
		From(tableChats).
		Where(squirrel.Eq{"subscribed": true}).
		OrderBy("chat_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSubscribedIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSubscribedIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListSubscribedIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSubscribedIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}
