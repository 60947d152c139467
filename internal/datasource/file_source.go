package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/promo-hedge/internal/logger"
	"github.com/yourusername/promo-hedge/internal/models"
)

// FileSourceName identifies the snapshot file provider
const FileSourceName = "file"

// FileSource reads odds snapshots saved in The Odds API format from
// {dir}/{sport}.json. It serves offline runs and replays.
type FileSource struct {
	dir     string
	enabled bool
	log     *logger.ProviderLogger
}

// NewFileSource creates a snapshot source rooted at dir
func NewFileSource(dir string, enabled bool, log *logrus.Logger) *FileSource {
	if log == nil {
		log = logrus.New()
	}
	return &FileSource{
		dir:     dir,
		enabled: enabled,
		log:     logger.NewProviderLogger(log, FileSourceName),
	}
}

// Name returns the name of the data source
func (s *FileSource) Name() string {
	return FileSourceName
}

// IsEnabled returns whether this data source is currently enabled
func (s *FileSource) IsEnabled() bool {
	return s.enabled
}

// FetchGames loads the snapshot for sport
func (s *FileSource) FetchGames(ctx context.Context, sport string) ([]models.Game, error) {
	if !s.enabled {
		return nil, NewDataSourceError(FileSourceName, ErrCodeDisabled, "data source is disabled", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sport == "" || filepath.Base(sport) != sport {
		return nil, NewDataSourceError(FileSourceName, ErrCodeInvalidData, fmt.Sprintf("invalid sport key %q", sport), nil)
	}

	path := filepath.Join(s.dir, sport+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewDataSourceError(FileSourceName, ErrCodeNotFound, "no snapshot at "+path, err)
		}
		return nil, NewDataSourceError(FileSourceName, ErrCodeUnknown, "failed to read snapshot", err)
	}

	var events []OddsAPIEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, NewDataSourceError(FileSourceName, ErrCodeInvalidData, "failed to parse snapshot "+path, err)
	}

	games := NormalizeEvents(events, OddsFormatAmerican, s.log)
	s.log.LogFetch(sport, len(games), 0, false)
	return games, nil
}
