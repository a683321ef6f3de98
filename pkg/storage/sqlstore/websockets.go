package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"
)

// AddConnection records that connectionID belongs to userID.
func (s *Store) AddConnection(ctx context.Context, userID, connectionID string) error {
	conn := &connection{ConnectionID: connectionID, UserID: userID, CreatedAt: s.now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(conn).Error
	if err != nil {
		return fmt.Errorf("failed to add connection: %w", err)
	}
	return nil
}

// RemoveConnection forgets a connection. Unknown ids are not an error.
func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	if err := s.db.WithContext(ctx).Delete(&connection{}, "connection_id = ?", connectionID).Error; err != nil {
		return fmt.Errorf("failed to remove connection: %w", err)
	}
	return nil
}

// GetConnections lists the connection ids of a user.
func (s *Store) GetConnections(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&connection{}).Where("user_id = ?", userID).Order("created_at").Pluck("connection_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get connections: %w", err)
	}
	return ids, nil
}
