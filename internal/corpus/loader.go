package corpus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/seoulbites/matzip/internal/domain"
	"github.com/seoulbites/matzip/internal/index/bm25"
)

const (
	documentsFile  = "restaurants.parquet"
	embeddingsFile = "embeddings.bin"

	// embeddingsMagic identifies the binary embedding artifact. Layout:
	// magic, uint32 row count, uint32 dimension, then rows*dim little-endian
	// float32 values.
	embeddingsMagic = "MZE1"
)

// document carries one row of restaurants.parquet. Field names follow the
// enrichment pipeline columns.
type document struct {
	PlaceID          string
	Name             string
	BM25Text         string
	TypesFinal       string
	PrimaryType      string
	BoroughEN        string
	Grid             string
	District         string
	Address          string
	PhoneNumber      string
	Rating           *float64
	UserRatingsTotal int
	Confidence       float64

	Sentiments map[domain.Aspect]*float64
	ZScores    map[domain.Aspect]*float64

	Summary string
}

// sentimentColumns maps pipeline sentiment columns to aspects; z-score
// columns carry the Z_ prefix on the same names.
var sentimentColumns = map[string]domain.Aspect{
	"S_food_avg":          domain.AspectFood,
	"S_service_avg":       domain.AspectService,
	"S_ambience_avg":      domain.AspectAmbience,
	"S_price_avg":         domain.AspectPrice,
	"S_hygiene_avg":       domain.AspectHygiene,
	"S_waiting_avg":       domain.AspectWaiting,
	"S_accessibility_avg": domain.AspectAccessibility,
}

func (d document) toRestaurant() (domain.Restaurant, error) {
	return domain.NewRestaurant(domain.RestaurantFields{
		PlaceID:     d.PlaceID,
		Name:        d.Name,
		BM25Text:    d.BM25Text,
		Types:       splitTypes(d.TypesFinal),
		PrimaryType: strings.TrimSpace(d.PrimaryType),
		Borough:     domain.Borough(strings.TrimSpace(d.BoroughEN)),
		Grid:        strings.TrimSpace(d.Grid),
		District:    strings.TrimSpace(d.District),
		Address:     d.Address,
		Phone:       d.PhoneNumber,
		Rating:      d.Rating,
		RatingCount: d.UserRatingsTotal,
		Confidence:  d.Confidence,
		Sentiments:  aspectMap(d.Sentiments),
		ZScores:     aspectMap(d.ZScores),
		Summary:     d.Summary,
	})
}

// splitTypes splits the pipe-joined type column into trimmed tokens.
func splitTypes(v string) []string {
	if v == "" {
		return nil
	}
	var types []string
	for _, t := range strings.Split(v, "|") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}

// aspectMap keeps only the aspects the pipeline actually scored.
func aspectMap(vals map[domain.Aspect]*float64) map[domain.Aspect]float64 {
	m := make(map[domain.Aspect]float64, len(vals))
	for a, v := range vals {
		if v != nil {
			m[a] = *v
		}
	}
	return m
}

// Load reads the corpus artifacts from dir and builds the snapshot.
func Load(dir string) (*Snapshot, error) {
	docs, err := loadDocuments(filepath.Join(dir, documentsFile))
	if err != nil {
		return nil, err
	}
	matrix, err := loadEmbeddings(filepath.Join(dir, embeddingsFile))
	if err != nil {
		return nil, err
	}
	corp, err := NewCorpus(docs, matrix)
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", dir, err)
	}
	return &Snapshot{Corpus: corp, Lexical: bm25.NewIndex(corp.Texts())}, nil
}

func loadDocuments(path string) ([]domain.Restaurant, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open documents: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat documents: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open documents parquet: %w", err)
	}

	names := leafColumnNames(pf.Schema())
	var docs []domain.Restaurant
	rowNum := 0
	for _, rg := range pf.RowGroups() {
		rows := parquet.NewRowGroupReader(rg)
		buf := make([]parquet.Row, 256)
		for {
			n, readErr := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				rowNum++
				r, err := rowToDocument(buf[i], names).toRestaurant()
				if err != nil {
					return nil, fmt.Errorf("documents row %d: %w", rowNum, err)
				}
				docs = append(docs, r)
			}
			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return nil, fmt.Errorf("read documents: %w", readErr)
			}
		}
	}
	return docs, nil
}

// leafColumnNames maps each leaf column index to its root field name.
// The export schema is flat, so the root name is the column name.
func leafColumnNames(schema *parquet.Schema) []string {
	cols := schema.Columns()
	names := make([]string, len(cols))
	for i, path := range cols {
		if len(path) > 0 {
			names[i] = path[0]
		}
	}
	return names
}

// rowToDocument extracts a document from a generic parquet row. Columns
// the loader does not know are ignored, so pipeline schema additions do
// not break older binaries.
func rowToDocument(row parquet.Row, names []string) document {
	d := document{
		Sentiments: make(map[domain.Aspect]*float64),
		ZScores:    make(map[domain.Aspect]*float64),
	}
	for _, v := range row {
		col := v.Column()
		if v.IsNull() || col < 0 || col >= len(names) {
			continue
		}
		name := names[col]
		if a, ok := sentimentColumns[name]; ok {
			d.Sentiments[a] = numericPtr(v)
			continue
		}
		if a, ok := sentimentColumns[strings.TrimPrefix(name, "Z_")]; ok {
			d.ZScores[a] = numericPtr(v)
			continue
		}
		switch name {
		case "place_id":
			d.PlaceID = v.String()
		case "name":
			d.Name = v.String()
		case "bm25_text":
			d.BM25Text = v.String()
		case "types_final":
			d.TypesFinal = v.String()
		case "primaryType":
			d.PrimaryType = v.String()
		case "borough_en":
			d.BoroughEN = v.String()
		case "grid":
			d.Grid = v.String()
		case "district":
			d.District = v.String()
		case "address":
			d.Address = v.String()
		case "phone_number":
			d.PhoneNumber = v.String()
		case "rating":
			d.Rating = numericPtr(v)
		case "user_ratings_total":
			d.UserRatingsTotal = int(numeric(v))
		case "S_conf":
			d.Confidence = numeric(v)
		case "summary":
			d.Summary = v.String()
		}
	}
	return d
}

// numeric reads a numeric parquet value regardless of its physical type.
// Pandas promotes integer columns with missing values to doubles, so the
// same logical column can arrive as INT64 in one export and DOUBLE in the
// next.
func numeric(v parquet.Value) float64 {
	switch v.Kind() {
	case parquet.Int32:
		return float64(v.Int32())
	case parquet.Int64:
		return float64(v.Int64())
	case parquet.Float:
		return float64(v.Float())
	default:
		return v.Double()
	}
}

func numericPtr(v parquet.Value) *float64 {
	f := numeric(v)
	return &f
}

func loadEmbeddings(path string) (*Matrix, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read embeddings: %w", err)
	}
	header := len(embeddingsMagic) + 8
	if len(raw) < header {
		return nil, fmt.Errorf("embeddings header truncated at %d bytes: %w", len(raw), domain.ErrCorpusMisaligned)
	}
	if string(raw[:len(embeddingsMagic)]) != embeddingsMagic {
		return nil, fmt.Errorf("embeddings magic %q: %w", raw[:len(embeddingsMagic)], domain.ErrCorpusMisaligned)
	}
	rows := int(binary.LittleEndian.Uint32(raw[len(embeddingsMagic):]))
	dim := int(binary.LittleEndian.Uint32(raw[len(embeddingsMagic)+4:]))
	payload := raw[header:]
	if len(payload) != rows*dim*4 {
		return nil, fmt.Errorf("embeddings payload %d bytes for shape %dx%d: %w", len(payload), rows, dim, domain.ErrCorpusMisaligned)
	}
	data := make([]float32, rows*dim)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4:]))
	}
	return NewMatrix(data, rows, dim)
}
