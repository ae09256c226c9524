package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/address-verifier/app/models"
	"github.com/address-verifier/app/responses"
	"github.com/address-verifier/internal/usps"
)

// StandardizeLineOutcome chạy StandardizeLine và chuyển kết quả/lỗi thành status + body của HTTP
func (rs *ResolutionService) StandardizeLineOutcome(ctx context.Context, line string) responses.LineResult {
	result, err := rs.StandardizeLine(ctx, line)
	if err != nil {
		return errorOutcome(err)
	}
	return responses.LineResult{Status: result.HTTPStatus(), Body: result}
}

// RetryOutcome tương tự cho luồng nhập tay
func (rs *ResolutionService) RetryOutcome(ctx context.Context, q models.NormalizedQuery) responses.LineResult {
	result, err := rs.Retry(ctx, q)
	if err != nil {
		return errorOutcome(err)
	}
	return responses.LineResult{Status: result.HTTPStatus(), Body: result}
}

// StandardizeLines xử lý nhiều dòng song song, một dòng lỗi không ảnh hưởng dòng khác
func (rs *ResolutionService) StandardizeLines(ctx context.Context, lines []string) []responses.LineResult {
	return forEachLine(ctx, lines, rs.batchConcurrency, rs.StandardizeLineOutcome)
}

func errorOutcome(err error) responses.LineResult {
	var authErr *usps.AuthError
	var parseErr *ParseError

	switch {
	case errors.Is(err, ErrAddressLineRequired), errors.Is(err, ErrStreetAddressRequired):
		return responses.LineResult{Status: http.StatusBadRequest, Body: responses.ErrorResponse{Error: err.Error()}}
	case errors.As(err, &authErr):
		msg := authErr.Body
		if msg == "" {
			msg = "OAuth failed"
		}
		return responses.LineResult{
			Status: models.UpstreamStatus(authErr.Status),
			Body:   responses.OAuthErrorResponse{Stage: models.StageOAuth, Error: msg},
		}
	case errors.As(err, &parseErr):
		return responses.LineResult{
			Status: http.StatusBadRequest,
			Body: responses.ParseErrorResponse{
				Stage:   models.StageParse,
				Error:   parseErr.Error(),
				AIError: parseErr.AIError,
				Parsed:  parseErr.Parsed,
				Query:   parseErr.Query,
			},
		}
	default:
		return responses.LineResult{Status: http.StatusInternalServerError, Body: responses.ErrorResponse{Error: err.Error()}}
	}
}
