package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"charterbot/internal/domain"
)

// Layout names the shard files of each category, in load order.
// The first charter shard is the only source of store metadata.
type Layout struct {
	Charter []string
	Sales   []string
}

// DefaultLayout is the bounded shard set shipped with the bot.
func DefaultLayout() Layout {
	return Layout{
		Charter: []string{
			"inara_charter_batch_1.json",
			"inara_charter_batch_2.json",
			"inara_charter_batch_3.json",
			"inara_charter_batch_4.json",
		},
		Sales: []string{
			"inara_sales_batch_1.json",
			"inara_sales_batch_2.json",
		},
	}
}

// Warning is a non-fatal problem encountered while reading a shard.
type Warning struct {
	Shard string
	Err   error
}

func (w Warning) Error() string { return fmt.Sprintf("knowledge shard %s: %v", w.Shard, w.Err) }

func (w Warning) Unwrap() error { return w.Err }

// shardFile is the on-disk shape of a shard.
type shardFile struct {
	Metadata map[string]any     `json:"metadata" yaml:"metadata"`
	FAQItems []domain.FAQRecord `json:"faq_items" yaml:"faq_items"`
}

var errMissingShard = errors.New("shard not found")

// Load reads the shards of layout from dir. Missing shards contribute
// nothing. The first unreadable or malformed shard stops loading; the
// store then holds whatever was accumulated before it and the failure is
// returned as a warning. Load never fails.
func Load(dir string, layout Layout, logger *zap.Logger) (*Store, []Warning) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var (
		charter  []domain.FAQRecord
		sales    []domain.FAQRecord
		metadata map[string]any
		warnings []Warning
	)

	type shardRef struct {
		name     string
		category domain.Category
		meta     bool
	}
	refs := make([]shardRef, 0, len(layout.Charter)+len(layout.Sales))
	for i, name := range layout.Charter {
		refs = append(refs, shardRef{name: name, category: domain.CategoryCharter, meta: i == 0})
	}
	for _, name := range layout.Sales {
		refs = append(refs, shardRef{name: name, category: domain.CategorySales})
	}

	for _, ref := range refs {
		path := filepath.Join(dir, ref.name)
		shard, err := readShard(path)
		if errors.Is(err, errMissingShard) {
			logger.Debug("knowledge shard absent", zap.String("shard", ref.name))
			continue
		}
		if err != nil {
			w := Warning{Shard: ref.name, Err: err}
			logger.Warn("knowledge loaded partially", zap.String("shard", ref.name), zap.Error(err))
			warnings = append(warnings, w)
			break
		}
		records := withCategory(shard.FAQItems, ref.category)
		switch ref.category {
		case domain.CategoryCharter:
			charter = append(charter, records...)
		case domain.CategorySales:
			sales = append(sales, records...)
		}
		if ref.meta {
			metadata = shard.Metadata
		}
		logger.Debug("knowledge shard loaded",
			zap.String("shard", ref.name),
			zap.String("category", string(ref.category)),
			zap.Int("records", len(records)))
	}

	store := New(charter, sales, metadata)
	c := store.Counts()
	logger.Info("knowledge base ready",
		zap.Int("charter", c.Charter),
		zap.Int("sales", c.Sales),
		zap.Int("keywords", c.Keywords),
		zap.Int("warnings", len(warnings)))
	return store, warnings
}

func readShard(path string) (*shardFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errMissingShard
		}
		return nil, fmt.Errorf("read: %w", err)
	}
	var shard shardFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &shard); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &shard); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}
	return &shard, nil
}

// withCategory fills in the shard category for records that omit it.
func withCategory(items []domain.FAQRecord, c domain.Category) []domain.FAQRecord {
	out := make([]domain.FAQRecord, len(items))
	for i, rec := range items {
		if rec.Category == "" {
			rec.Category = c
		}
		out[i] = rec
	}
	return out
}
