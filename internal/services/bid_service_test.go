package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tenderchain/tender-marketplace/internal/models"
	"github.com/tenderchain/tender-marketplace/internal/repository"
)

type stubBidRepo struct {
	bids      map[string]*models.Bid
	duplicate bool
}

func newStubBidRepo() *stubBidRepo {
	return &stubBidRepo{bids: make(map[string]*models.Bid)}
}

func (s *stubBidRepo) CreateBid(ctx context.Context, bidderID string, bidReq models.BidRequest) (*models.Bid, error) {
	if s.duplicate {
		return nil, repository.ErrDuplicateBid
	}
	bid := &models.Bid{
		ID:       "bid-1",
		TenderID: bidReq.TenderID,
		BidderID: bidderID,
		Amount:   bidReq.Amount,
		Status:   models.PendingBid,
	}
	s.bids[bid.ID] = bid
	return bid, nil
}

func (s *stubBidRepo) GetUserBids(ctx context.Context, bidderID string) ([]models.BidWithTender, error) {
	return nil, nil
}

func (s *stubBidRepo) GetTenderBids(ctx context.Context, tenderID string, limit, offset int) ([]models.Bid, error) {
	return nil, nil
}

func (s *stubBidRepo) GetBidByID(ctx context.Context, bidID string) (*models.Bid, error) {
	bid, ok := s.bids[bidID]
	if !ok {
		return nil, repository.ErrBidNotFound
	}
	return bid, nil
}

func (s *stubBidRepo) UpdateBidStatus(ctx context.Context, bidID string, status models.BidStatus) (*models.Bid, error) {
	bid, ok := s.bids[bidID]
	if !ok {
		return nil, repository.ErrBidNotFound
	}
	bid.Status = status
	return bid, nil
}

func publishedTender(id, buyerID string) models.Tender {
	return models.Tender{
		ID:       id,
		Title:    "Road repair",
		Sector:   "Construction",
		Status:   models.PublishedTender,
		BuyerID:  buyerID,
		Deadline: time.Now().Add(30 * 24 * time.Hour),
	}
}

func newBidService(bids repository.BidRepository, tenders repository.TenderRepository) *BidService {
	return NewBidService(bids, tenders, nil, nil, zap.NewNop().Sugar())
}

func TestCreateBid_UnknownTender(t *testing.T) {
	svc := newBidService(newStubBidRepo(), &stubTenderRepo{})

	_, err := svc.CreateBid(context.Background(), "bidder-1", models.BidRequest{TenderID: "ghost", Amount: 100})

	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, http.StatusNotFound, errorResponse.StatusCode)
}

func TestCreateBid_ClosedTender(t *testing.T) {
	tender := publishedTender("tender-1", "buyer-1")
	tender.Status = models.ClosedTender
	svc := newBidService(newStubBidRepo(), &stubTenderRepo{tenders: []models.Tender{tender}})

	_, err := svc.CreateBid(context.Background(), "bidder-1", models.BidRequest{TenderID: "tender-1", Amount: 100})

	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, http.StatusBadRequest, errorResponse.StatusCode)
}

func TestCreateBid_ExpiredDeadline(t *testing.T) {
	tender := publishedTender("tender-1", "buyer-1")
	tender.Deadline = time.Now().Add(-time.Hour)
	svc := newBidService(newStubBidRepo(), &stubTenderRepo{tenders: []models.Tender{tender}})

	_, err := svc.CreateBid(context.Background(), "bidder-1", models.BidRequest{TenderID: "tender-1", Amount: 100})

	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, http.StatusBadRequest, errorResponse.StatusCode)
}

func TestCreateBid_OwnTenderForbidden(t *testing.T) {
	svc := newBidService(newStubBidRepo(), &stubTenderRepo{tenders: []models.Tender{publishedTender("tender-1", "buyer-1")}})

	_, err := svc.CreateBid(context.Background(), "buyer-1", models.BidRequest{TenderID: "tender-1", Amount: 100})

	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, http.StatusForbidden, errorResponse.StatusCode)
}

func TestCreateBid_Duplicate(t *testing.T) {
	bids := newStubBidRepo()
	bids.duplicate = true
	svc := newBidService(bids, &stubTenderRepo{tenders: []models.Tender{publishedTender("tender-1", "buyer-1")}})

	_, err := svc.CreateBid(context.Background(), "bidder-1", models.BidRequest{TenderID: "tender-1", Amount: 100})

	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, http.StatusBadRequest, errorResponse.StatusCode)
	assert.Contains(t, errorResponse.Message, "already submitted")
}

func TestCreateBid_Success(t *testing.T) {
	svc := newBidService(newStubBidRepo(), &stubTenderRepo{tenders: []models.Tender{publishedTender("tender-1", "buyer-1")}})

	bid, err := svc.CreateBid(context.Background(), "bidder-1", models.BidRequest{TenderID: "tender-1", Amount: 100})

	require.NoError(t, err)
	assert.Equal(t, models.PendingBid, bid.Status)
	assert.Equal(t, "bidder-1", bid.BidderID)
}

func TestSubmitDecision_OnlyTenderOwner(t *testing.T) {
	bids := newStubBidRepo()
	bids.bids["bid-1"] = &models.Bid{ID: "bid-1", TenderID: "tender-1", BidderID: "bidder-1", Status: models.PendingBid}
	svc := newBidService(bids, &stubTenderRepo{tenders: []models.Tender{publishedTender("tender-1", "buyer-1")}})

	_, err := svc.SubmitDecision(context.Background(), "bid-1", "stranger", models.AcceptedBid)

	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, http.StatusForbidden, errorResponse.StatusCode)
}

func TestSubmitDecision_AlreadyDecided(t *testing.T) {
	bids := newStubBidRepo()
	bids.bids["bid-1"] = &models.Bid{ID: "bid-1", TenderID: "tender-1", BidderID: "bidder-1", Status: models.AcceptedBid}
	svc := newBidService(bids, &stubTenderRepo{tenders: []models.Tender{publishedTender("tender-1", "buyer-1")}})

	_, err := svc.SubmitDecision(context.Background(), "bid-1", "buyer-1", models.RejectedBid)

	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, http.StatusBadRequest, errorResponse.StatusCode)
}

func TestSubmitDecision_InvalidDecision(t *testing.T) {
	svc := newBidService(newStubBidRepo(), &stubTenderRepo{})

	_, err := svc.SubmitDecision(context.Background(), "bid-1", "buyer-1", models.BidStatus("MAYBE"))

	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, http.StatusBadRequest, errorResponse.StatusCode)
}

func TestSubmitDecision_Accept(t *testing.T) {
	bids := newStubBidRepo()
	bids.bids["bid-1"] = &models.Bid{ID: "bid-1", TenderID: "tender-1", BidderID: "bidder-1", Status: models.PendingBid}
	svc := newBidService(bids, &stubTenderRepo{tenders: []models.Tender{publishedTender("tender-1", "buyer-1")}})

	bid, err := svc.SubmitDecision(context.Background(), "bid-1", "buyer-1", models.AcceptedBid)

	require.NoError(t, err)
	assert.Equal(t, models.AcceptedBid, bid.Status)
}
