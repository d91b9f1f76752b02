package database

import (
	"fmt"
	"time"

	"github.com/Nomadcxx/tunewatch/internal/metadata"
)

// Move is one recorded relocation.
type Move struct {
	ID          int64
	Source      string
	Destination string
	Track       metadata.Track
	MovedAt     time.Time
}

// InsertMove records a completed move.
func (h *HistoryDB) InsertMove(source, destination string, track *metadata.Track) error {
	_, err := h.db.Exec(`
		INSERT INTO moves (source, destination, name, artists, main_artist, year, album)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		source, destination, track.Name, track.Artists, track.MainArtist, track.Year, track.Album)
	if err != nil {
		return fmt.Errorf("failed to insert move: %w", err)
	}
	return nil
}

// RecentMoves returns the most recent moves, newest first.
func (h *HistoryDB) RecentMoves(limit int) ([]Move, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.db.Query(`
		SELECT id, source, destination, name, artists, main_artist, year, album, moved_at
		FROM moves
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query moves: %w", err)
	}
	defer rows.Close()

	var moves []Move
	for rows.Next() {
		var m Move
		if err := rows.Scan(&m.ID, &m.Source, &m.Destination,
			&m.Track.Name, &m.Track.Artists, &m.Track.MainArtist,
			&m.Track.Year, &m.Track.Album, &m.MovedAt); err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, m)
	}

	return moves, rows.Err()
}

// CountMoves returns the total number of recorded moves.
func (h *HistoryDB) CountMoves() (int64, error) {
	var count int64
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM moves`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return count, nil
}
