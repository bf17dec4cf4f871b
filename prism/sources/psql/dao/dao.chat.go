package dao

import (
	"context"

	"prism/prism/sources/psql/models"

	"gorm.io/gorm"
)

type ChatMessageDAO struct {
	DB *gorm.DB
}

func NewChatMessageDAO(db *gorm.DB) *ChatMessageDAO {
	return &ChatMessageDAO{DB: db}
}

// SaveMessage appends one entry to the user's log. ID and CreatedAt are
// assigned by the store.
func (dao *ChatMessageDAO) SaveMessage(ctx context.Context, userID, role, contentType, content string) (*models.ChatMessage, error) {
	msg := models.ChatMessage{
		UserID:      userID,
		Role:        role,
		Content:     content,
		ContentType: contentType,
	}
	if err := dao.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetHistoryByUser returns the user's full log, oldest first.
func (dao *ChatMessageDAO) GetHistoryByUser(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	var history []models.ChatMessage
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// DeleteAllByUser removes every row owned by userID and reports how many went.
func (dao *ChatMessageDAO) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	res := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.ChatMessage{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
