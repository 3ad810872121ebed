package services

import (
	"mediawall/internal/models"
	"time"
)

type LikesServiceInterface interface {
	Total() (int64, error)
	Add(ip, userAgent string, meta *models.ClientMetadata) (int64, error)
}

type LikesService struct {
	ledger LikesLedger
	now    func() time.Time
}

func (ls *LikesService) Total() (int64, error) {
	doc, err := ls.ledger.Get()
	if err != nil {
		return 0, err
	}
	return doc.Count(), nil
}

func (ls *LikesService) Add(ip, userAgent string, meta *models.ClientMetadata) (int64, error) {
	entry := models.NewLikeEntry(ls.now(), ip, userAgent, meta)
	var total int64
	_, err := ls.ledger.Mutate(func(doc *models.LikesDocument) (bool, error) {
		total = doc.Append(entry)
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func NewLikesService(ledger LikesLedger) LikesServiceInterface {
	return &LikesService{
		ledger: ledger,
		now:    time.Now,
	}
}
