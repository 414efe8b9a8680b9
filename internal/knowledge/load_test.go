package knowledge

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"charterbot/internal/domain"
)

func writeShard(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

const charterShard1 = `{
  "metadata": {"company": "Inara Yachts", "version": "1.0"},
  "faq_items": [
    {"question": "Which yachts can I charter?", "answer": "Motor and sailing yachts.", "trigger_keywords": ["charter", "yachts"], "category": "charter"},
    {"question": "Is crew included?", "answer": "Yes.", "trigger_keywords": ["crew"]}
  ]
}`

const charterShard2 = `{
  "metadata": {"company": "ignored"},
  "faq_items": [
    {"question": "What is the deposit?", "answer": "Fifty percent.", "trigger_keywords": ["deposit", "price"]}
  ]
}`

const salesShard1 = `{
  "faq_items": [
    {"question": "Do you offer financing?", "answer": "Yes.", "trigger_keywords": ["financing", "price"], "category": "sales"}
  ]
}`

func TestLoadWithNoShards(t *testing.T) {
	store, warnings := Load(t.TempDir(), DefaultLayout(), nil)
	require.NotNil(t, store)
	assert.Empty(t, warnings)
	assert.Zero(t, store.Counts().Total())
	assert.Empty(t, store.Metadata())
}

func TestLoadWithOneShard(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "inara_sales_batch_1.json", salesShard1)

	store, warnings := Load(dir, DefaultLayout(), nil)
	assert.Empty(t, warnings)
	assert.Equal(t, Counts{Charter: 0, Sales: 1, Keywords: 2}, store.Counts())
	assert.Empty(t, store.Metadata())
}

func TestLoadAllShards(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "inara_charter_batch_1.json", charterShard1)
	writeShard(t, dir, "inara_charter_batch_2.json", charterShard2)
	writeShard(t, dir, "inara_charter_batch_3.json", `{"faq_items": []}`)
	writeShard(t, dir, "inara_charter_batch_4.json", `{"faq_items": [{"question": "Pets?", "answer": "Small ones.", "trigger_keywords": ["pets"]}]}`)
	writeShard(t, dir, "inara_sales_batch_1.json", salesShard1)
	writeShard(t, dir, "inara_sales_batch_2.json", `{"faq_items": [{"question": "Trade-ins?", "answer": "Accepted.", "trigger_keywords": ["trade"]}]}`)

	store, warnings := Load(dir, DefaultLayout(), nil)
	assert.Empty(t, warnings)

	c := store.Counts()
	assert.Equal(t, 4, c.Charter)
	assert.Equal(t, 2, c.Sales)

	charter := store.Charter()
	assert.Equal(t, "Which yachts can I charter?", charter[0].Question)
	assert.Equal(t, "Pets?", charter[3].Question)
	for _, rec := range charter {
		assert.Equal(t, domain.CategoryCharter, rec.Category, "category defaults to the shard category")
	}
	assert.Equal(t, "Inara Yachts", store.Metadata()["company"], "metadata comes from the first charter shard only")

	price := store.Lookup("price")
	require.Len(t, price, 2)
	assert.Equal(t, domain.CategoryCharter, price[0].Category)
	assert.Equal(t, domain.CategorySales, price[1].Category)
}

func TestLoadMetadataOnlyFromFirstShard(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "inara_charter_batch_2.json", charterShard2)

	store, warnings := Load(dir, DefaultLayout(), nil)
	assert.Empty(t, warnings)
	assert.Equal(t, 1, store.Counts().Charter)
	assert.Empty(t, store.Metadata())
}

func TestLoadStopsAtMalformedShard(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "inara_charter_batch_1.json", charterShard1)
	writeShard(t, dir, "inara_charter_batch_2.json", `{"faq_items": [`)
	writeShard(t, dir, "inara_sales_batch_1.json", salesShard1)

	store, warnings := Load(dir, DefaultLayout(), nil)
	require.Len(t, warnings, 1)
	assert.Equal(t, "inara_charter_batch_2.json", warnings[0].Shard)
	assert.ErrorContains(t, warnings[0], "decode json")

	assert.Equal(t, 2, store.Counts().Charter)
	assert.Equal(t, 0, store.Counts().Sales)
	assert.Len(t, store.Lookup("crew"), 1, "index covers the records loaded before the failure")
}

func TestLoadYAMLShard(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "charter.yaml", `
metadata:
  region: Mediterranean
faq_items:
  - question: Where do charters depart?
    answer: Athens and Split.
    trigger_keywords: [departure, marina]
`)

	store, warnings := Load(dir, Layout{Charter: []string{"charter.yaml"}}, nil)
	assert.Empty(t, warnings)
	require.Equal(t, 1, store.Counts().Charter)
	assert.Equal(t, "Mediterranean", store.Metadata()["region"])
	assert.Len(t, store.Lookup("marina"), 1)
}

func TestLoaderRunsOnce(t *testing.T) {
	var calls atomic.Int32
	loader := NewLoader(func() (*Store, []Warning) {
		calls.Add(1)
		return New(sampleCharter(), nil, nil), nil
	})

	stores := make([]*Store, 16)
	var g errgroup.Group
	for i := range stores {
		i := i
		g.Go(func() error {
			stores[i], _ = loader.Load()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), calls.Load())
	for _, s := range stores {
		assert.Same(t, stores[0], s)
	}
}

func TestLoaderNilStoreBecomesEmpty(t *testing.T) {
	loader := NewLoader(func() (*Store, []Warning) { return nil, nil })
	store, _ := loader.Load()
	require.NotNil(t, store)
	assert.Zero(t, store.Counts().Total())
}
