package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/reginaldodesouza61/listas-compras/internal/metrics"
	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/internal/scanner"
	"github.com/reginaldodesouza61/listas-compras/pkg/api"
)

// ProductLookup is the product database used by ProductService.
type ProductLookup interface {
	Search(ctx context.Context, query string) []models.Product
	LookupBarcode(ctx context.Context, code string) (models.Product, bool)
}

// ProductService implements the Connect ProductService
type ProductService struct {
	products ProductLookup
	decoder  scanner.Decoder
	metrics  *metrics.Metrics
}

// NewProductService creates a new ProductService. decoder reads barcodes
// from uploaded frames.
func NewProductService(products ProductLookup, decoder scanner.Decoder, m *metrics.Metrics) *ProductService {
	return &ProductService{products: products, decoder: decoder, metrics: m}
}

// SearchProducts runs a text search. Short queries return no products.
func (s *ProductService) SearchProducts(ctx context.Context, req *connect.Request[api.SearchProductsRequest]) (*connect.Response[api.SearchProductsResponse], error) {
	if _, err := requireCaller(ctx); err != nil {
		return nil, err
	}

	found := s.products.Search(ctx, req.Msg.Query)
	out := make([]*api.Product, len(found))
	for i, p := range found {
		out[i] = ProductMessage(p)
	}

	slog.Debug("SearchProducts", "query", req.Msg.Query, "count", len(out))
	return connect.NewResponse(&api.SearchProductsResponse{Products: out}), nil
}

// LookupBarcode finds the product with the given barcode.
func (s *ProductService) LookupBarcode(ctx context.Context, req *connect.Request[api.LookupBarcodeRequest]) (*connect.Response[api.LookupBarcodeResponse], error) {
	if _, err := requireCaller(ctx); err != nil {
		return nil, err
	}
	if req.Msg.Barcode == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("barcode required"))
	}

	resp := &api.LookupBarcodeResponse{}
	if p, ok := s.products.LookupBarcode(ctx, req.Msg.Barcode); ok {
		resp.Found = true
		resp.Product = ProductMessage(p)
	}
	return connect.NewResponse(resp), nil
}

// DecodeBarcode reads a barcode from one uploaded frame and looks it up.
// A frame without a readable barcode is not an error.
func (s *ProductService) DecodeBarcode(ctx context.Context, req *connect.Request[api.DecodeBarcodeRequest]) (*connect.Response[api.DecodeBarcodeResponse], error) {
	if _, err := requireCaller(ctx); err != nil {
		return nil, err
	}

	img, err := scanner.PrepareFrame(req.Msg.Image, scanner.DefaultMaxDimension)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	code, err := s.decoder.Decode(img)
	if errors.Is(err, scanner.ErrNoBarcode) {
		s.metrics.ScanSession("no_barcode")
		return connect.NewResponse(&api.DecodeBarcodeResponse{}), nil
	}
	if err != nil {
		slog.Warn("DecodeBarcode failed", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	s.metrics.ScanSession("decoded")

	resp := &api.DecodeBarcodeResponse{Barcode: code}
	if p, ok := s.products.LookupBarcode(ctx, code); ok {
		resp.Found = true
		resp.Product = ProductMessage(p)
	}
	return connect.NewResponse(resp), nil
}
