package service

import (
	"bidwizer-be/internal/dto"
	"bidwizer-be/internal/entity"
	"bidwizer-be/pkg/catalog"
)

type ITenderService interface {
	ListPublishers() []entity.Publisher
	GetPublisher(id string) (entity.Publisher, error)
	ListTenders(q dto.TenderListQuery) []entity.Tender
	GetTender(id string) (entity.Tender, error)
}

type tenderService struct{}

func NewTenderService() ITenderService {
	return &tenderService{}
}

func (s *tenderService) ListPublishers() []entity.Publisher {
	return catalog.Publishers()
}

func (s *tenderService) GetPublisher(id string) (entity.Publisher, error) {
	return catalog.FindPublisher(id)
}

func (s *tenderService) ListTenders(q dto.TenderListQuery) []entity.Tender {
	return catalog.ListTenders(catalog.TenderFilter{
		Keyword:     q.Keyword,
		Category:    q.Category,
		PublisherId: q.PublisherId,
	})
}

func (s *tenderService) GetTender(id string) (entity.Tender, error) {
	return catalog.FindTender(id)
}
