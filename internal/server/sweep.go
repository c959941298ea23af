package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/report"
	"github.com/drakos74/free-cluster/internal/storage"
)

const defaultDataset = "api"

// SweepRequest is the payload of a sweep request.
type SweepRequest struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Data    ml.Dataset `json:"data"`
	Range   ml.Range   `json:"range"`
	Seed    int64      `json:"seed"`
}

// SweepResponse carries the result and the id of the stored report.
type SweepResponse struct {
	ID     string          `json:"id"`
	Result *ml.SweepResult `json:"result"`
}

// Sweep evaluates the requested range of cluster counts and archives the result.
func Sweep(evaluator *ml.Evaluator, archive *report.Archive, debug bool) Route {
	return Route{
		Action: Api,
		Path:   "sweep",
		Method: POST,
		Exec: func(r *http.Request) ([]byte, int, error) {
			var req SweepRequest
			if err := JsonRead(r, debug, &req); err != nil {
				return nil, readStatus(err), fmt.Errorf("could not read sweep request: %w", err)
			}
			if req.Range == (ml.Range{}) {
				req.Range = ml.DefaultRange
			}
			if req.Name == "" {
				req.Name = defaultDataset
			}
			if err := storage.ValidName(req.Name); err != nil {
				return nil, http.StatusBadRequest, fmt.Errorf("invalid dataset name: %w", err)
			}

			result, err := evaluator.Evaluate(r.Context(), req.Data, req.Range, req.Seed)
			if err != nil {
				return nil, statusOf(err), err
			}

			s := report.NewSweep(req.Name, req.Columns, evaluator.Config(), *result)
			if err := archive.Save(s); err != nil {
				return nil, http.StatusInternalServerError, err
			}

			b, err := json.Marshal(SweepResponse{ID: s.ID.String(), Result: result})
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return b, http.StatusOK, nil
		},
	}
}

func statusOf(err error) int {
	var insufficient *ml.InsufficientDataError
	var degenerate *ml.DegenerateClusterError
	switch {
	case errors.As(err, &insufficient), errors.Is(err, ml.ErrInvalidDataset):
		return http.StatusBadRequest
	case errors.As(err, &degenerate):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Report returns an archived sweep report by dataset and id.
func Report(archive *report.Archive) Route {
	return Route{
		Action: Api,
		Path:   "report",
		Method: GET,
		Exec: func(r *http.Request) ([]byte, int, error) {
			q := r.URL.Query()
			dataset := q.Get("dataset")
			if dataset == "" {
				dataset = defaultDataset
			}
			s, err := archive.Load(dataset, q.Get("id"))
			switch {
			case errors.Is(err, storage.InvalidNameErr):
				return nil, http.StatusBadRequest, err
			case errors.Is(err, storage.NotFoundErr):
				return nil, http.StatusNotFound, err
			case err != nil:
				return nil, http.StatusInternalServerError, err
			}
			b, err := json.Marshal(s)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return b, http.StatusOK, nil
		},
	}
}
