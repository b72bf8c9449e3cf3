package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/domain/repository"
	"github.com/charging-catalog/internal/pkg/errors"
)

type indexRepository struct {
	client *Client
	logger *zap.Logger
}

func NewIndexRepository(client *Client) repository.SearchIndex {
	return &indexRepository{
		client: client,
		logger: client.logger,
	}
}

func (r *indexRepository) EnsureIndex(ctx context.Context) error {
	es := r.client.es

	res, err := es.Indices.Exists([]string{r.client.index}, es.Indices.Exists.WithContext(ctx))
	if err != nil {
		r.logger.Error("Failed to check index existence", zap.Error(err))
		return errors.ErrIndexSyncFailed
	}
	defer res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = es.Indices.Create(
		r.client.index,
		es.Indices.Create.WithBody(strings.NewReader(locationMapping)),
		es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		r.logger.Error("Failed to create index", zap.Error(err))
		return errors.ErrIndexSyncFailed
	}
	defer res.Body.Close()
	if res.IsError() {
		return r.indexError("create index", res.StatusCode, res.Body)
	}

	r.logger.Info("Search index created", zap.String("index", r.client.index))
	return nil
}

// BulkInsert writes documents through the bulk API in one request,
// refreshing at the end so resync results are immediately searchable.
func (r *indexRepository) BulkInsert(ctx context.Context, docs []*domain.LocationDocument) error {
	if len(docs) == 0 {
		return nil
	}
	if err := r.EnsureIndex(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, doc := range docs {
		meta := map[string]interface{}{
			"index": map[string]interface{}{"_index": r.client.index, "_id": doc.ID},
		}
		if err := json.NewEncoder(&buf).Encode(meta); err != nil {
			return errors.ErrIndexSyncFailed
		}
		if err := json.NewEncoder(&buf).Encode(doc); err != nil {
			return errors.ErrIndexSyncFailed
		}
	}

	es := r.client.es
	res, err := es.Bulk(
		&buf,
		es.Bulk.WithContext(ctx),
		es.Bulk.WithRefresh("true"),
	)
	if err != nil {
		r.logger.Error("Bulk insert failed", zap.Error(err))
		return errors.ErrIndexSyncFailed
	}
	defer res.Body.Close()
	if res.IsError() {
		return r.indexError("bulk insert", res.StatusCode, res.Body)
	}

	var bulkRes struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkRes); err == nil && bulkRes.Errors {
		r.logger.Error("Bulk insert reported item errors", zap.Int("docs", len(docs)))
		return errors.ErrIndexSyncFailed
	}
	return nil
}

func (r *indexRepository) Upsert(ctx context.Context, docID string, doc *domain.LocationDocument) error {
	if err := r.EnsureIndex(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return errors.ErrIndexSyncFailed
	}

	es := r.client.es
	res, err := es.Index(
		r.client.index,
		bytes.NewReader(body),
		es.Index.WithDocumentID(docID),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		r.logger.Error("Failed to index document", zap.String("doc_id", docID), zap.Error(err))
		return errors.ErrIndexSyncFailed
	}
	defer res.Body.Close()
	if res.IsError() {
		return r.indexError("index document", res.StatusCode, res.Body)
	}
	return nil
}

func (r *indexRepository) Get(ctx context.Context, docID string) (*domain.LocationDocument, error) {
	es := r.client.es
	res, err := es.Get(r.client.index, docID, es.Get.WithContext(ctx))
	if err != nil {
		r.logger.Error("Failed to get document", zap.String("doc_id", docID), zap.Error(err))
		return nil, errors.ErrSearchError
	}
	defer res.Body.Close()
	if res.StatusCode == 404 {
		return nil, errors.ErrDocumentNotFound
	}
	if res.IsError() {
		return nil, r.indexError("get document", res.StatusCode, res.Body)
	}

	var envelope struct {
		Source domain.LocationDocument `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, errors.ErrSearchError
	}
	return &envelope.Source, nil
}

func (r *indexRepository) PartialUpdate(ctx context.Context, docID string, fields map[string]interface{}) error {
	return r.update(ctx, docID, map[string]interface{}{"doc": fields})
}

func (r *indexRepository) Delete(ctx context.Context, docID string) error {
	es := r.client.es
	res, err := es.Delete(r.client.index, docID, es.Delete.WithContext(ctx))
	if err != nil {
		r.logger.Error("Failed to delete document", zap.String("doc_id", docID), zap.Error(err))
		return errors.ErrIndexSyncFailed
	}
	defer res.Body.Close()
	if res.StatusCode == 404 {
		return errors.ErrDocumentNotFound
	}
	if res.IsError() {
		return r.indexError("delete document", res.StatusCode, res.Body)
	}
	return nil
}

func (r *indexRepository) Wipe(ctx context.Context) error {
	es := r.client.es
	res, err := es.Indices.Delete(
		[]string{r.client.index},
		es.Indices.Delete.WithContext(ctx),
		es.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		r.logger.Error("Failed to wipe index", zap.Error(err))
		return errors.ErrIndexSyncFailed
	}
	defer res.Body.Close()
	if res.IsError() {
		return r.indexError("wipe index", res.StatusCode, res.Body)
	}
	return nil
}

func (r *indexRepository) AddChargerTypes(ctx context.Context, docID string, pairs []domain.ChargerType, stationDelta int) error {
	return r.update(ctx, docID, map[string]interface{}{
		"script": map[string]interface{}{
			"source": scriptAddChargerTypes,
			"params": map[string]interface{}{
				"charger_types":     pairs,
				"number_of_station": stationDelta,
			},
		},
	})
}

func (r *indexRepository) ReplaceChargerTypes(ctx context.Context, docID string, old, new []domain.ChargerType) error {
	return r.update(ctx, docID, map[string]interface{}{
		"script": map[string]interface{}{
			"source": scriptReplaceChargerTypes,
			"params": map[string]interface{}{
				"types_to_remove": old,
				"charger_types":   new,
			},
		},
	})
}

func (r *indexRepository) RemoveChargerTypes(ctx context.Context, docID string, pairs []domain.ChargerType, stationDelta int) error {
	return r.update(ctx, docID, map[string]interface{}{
		"script": map[string]interface{}{
			"source": scriptRemoveChargerTypes,
			"params": map[string]interface{}{
				"types_to_remove":   pairs,
				"number_of_station": stationDelta,
			},
		},
	})
}

func (r *indexRepository) FacetSearch(ctx context.Context, query repository.FacetSearchQuery) ([]*domain.LocationDocument, error) {
	if query.Text != nil && isNoisyText(*query.Text) {
		return []*domain.LocationDocument{}, nil
	}
	return r.search(ctx, buildFacetQuery(query))
}

func (r *indexRepository) RadiusSearch(ctx context.Context, lat, lon, radiusKm float64) ([]*domain.LocationDocument, error) {
	return r.search(ctx, buildRadiusQuery(lat, lon, radiusKm))
}

func (r *indexRepository) PolygonSearch(ctx context.Context, polygon []domain.Point) ([]*domain.LocationDocument, error) {
	return r.search(ctx, buildPolygonQuery(polygon))
}

func (r *indexRepository) update(ctx context.Context, docID string, body map[string]interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.ErrIndexSyncFailed
	}

	es := r.client.es
	res, err := es.Update(
		r.client.index,
		docID,
		bytes.NewReader(payload),
		es.Update.WithContext(ctx),
	)
	if err != nil {
		r.logger.Error("Failed to update document", zap.String("doc_id", docID), zap.Error(err))
		return errors.ErrIndexSyncFailed
	}
	defer res.Body.Close()
	if res.StatusCode == 404 {
		return errors.ErrDocumentNotFound
	}
	if res.IsError() {
		return r.indexError("update document", res.StatusCode, res.Body)
	}
	return nil
}

func (r *indexRepository) search(ctx context.Context, query map[string]interface{}) ([]*domain.LocationDocument, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, errors.ErrSearchError
	}

	es := r.client.es
	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(r.client.index),
		es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		r.logger.Error("Search request failed", zap.Error(err))
		return nil, errors.ErrSearchError
	}
	defer res.Body.Close()
	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		r.logger.Error("Search query failed",
			zap.Int("status", res.StatusCode),
			zap.ByteString("body", raw),
		)
		return nil, errors.ErrSearchError
	}

	var envelope struct {
		Hits struct {
			Hits []struct {
				Source domain.LocationDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, errors.ErrSearchError
	}

	docs := make([]*domain.LocationDocument, 0, len(envelope.Hits.Hits))
	for i := range envelope.Hits.Hits {
		docs = append(docs, &envelope.Hits.Hits[i].Source)
	}
	return docs, nil
}

func (r *indexRepository) indexError(op string, status int, body io.Reader) error {
	raw, _ := io.ReadAll(body)
	r.logger.Error(fmt.Sprintf("Elasticsearch %s failed", op),
		zap.Int("status", status),
		zap.ByteString("body", raw),
	)
	return errors.ErrIndexSyncFailed
}
