package service

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hanbat-ai/hanbatbot/internal/config"
	"github.com/hanbat-ai/hanbatbot/internal/domain"
)

// LoadCorpus reads the fixed list of regulation documents. A missing or
// unreadable file only produces a warning; the load fails only when nothing
// could be read at all. Document order follows the configured file order.
func LoadCorpus(cfg *config.CorpusConfig, logger *zap.Logger) ([]domain.Document, []string, error) {
	var documents []domain.Document
	var warnings []string

	for _, name := range cfg.Files {
		path := filepath.Join(cfg.Dir, name)

		data, err := os.ReadFile(path)
		if err != nil {
			var w string
			if os.IsNotExist(err) {
				w = fmt.Sprintf("'%s' 파일을 찾을 수 없습니다. 앱과 같은 폴더에 있는지 확인해주세요.", name)
			} else {
				w = fmt.Sprintf("'%s' 파일 로드 중 오류: %v", name, err)
			}
			warnings = append(warnings, w)
			logger.Warn("corpus file skipped", zap.String("file", name), zap.Error(err))
			continue
		}

		if !utf8.Valid(data) {
			w := fmt.Sprintf("'%s' 파일이 UTF-8로 인코딩되어 있지 않습니다.", name)
			warnings = append(warnings, w)
			logger.Warn("corpus file is not valid UTF-8", zap.String("file", name))
			continue
		}

		documents = append(documents, domain.Document{
			Source: name,
			Text:   string(data),
		})
	}

	if len(documents) == 0 {
		return nil, warnings, domain.ErrNoCorpus
	}

	return documents, warnings, nil
}
