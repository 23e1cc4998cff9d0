package iostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// FindListener looks up a listener id by exact username.
func (s *pgxStore) FindListener(
	ctx context.Context, username string,
) (uint, bool, error) {
	query := `SELECT id FROM user_accounts WHERE username = $1`

	var id uint
	err := s.pool.QueryRow(ctx, query, username).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to find listener: %w", err)
	}

	return id, true, nil
}

// FindSong looks up a song id by the owning artist's name and the
// song title.
func (s *pgxStore) FindSong(
	ctx context.Context, artist, title string,
) (uint, bool, error) {
	query := `
		SELECT s.id
		FROM songs s
		JOIN artists a ON a.id = s.artist_id
		WHERE a.name = $1 AND s.title = $2
	`

	var id uint
	err := s.pool.QueryRow(ctx, query, artist, title).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to find song: %w", err)
	}

	return id, true, nil
}
