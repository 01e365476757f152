package service

import (
	"context"
	"fmt"

	"studio-booking/internal/domain"
	"studio-booking/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardStats aggregates the back-office overview numbers.
type DashboardStats struct {
	Reservations ReservationStats `json:"reservations"`
	Orders       OrderStats       `json:"orders"`
	Users        UserStats        `json:"users"`
	Reviews      ReviewStats      `json:"reviews"`
}

type ReservationStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
}

type OrderStats struct {
	Total        int             `json:"total"`
	Pending      int             `json:"pending"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type UserStats struct {
	Total int `json:"total"`
}

type ReviewStats struct {
	Total         int     `json:"total"`
	AverageRating float64 `json:"average_rating"`
}

// AdminService computes the dashboard statistics and exposes the list-all
// views used by the back-office.
type AdminService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	ListUsers(ctx context.Context, offset, limit int) ([]*domain.User, error)
}

type adminService struct {
	reservationRepo repository.ReservationRepository
	orderRepo       repository.OrderRepository
	userRepo        repository.UserRepository
	reviewRepo      repository.ReviewRepository
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(
	reservationRepo repository.ReservationRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
) AdminService {
	return &adminService{
		reservationRepo: reservationRepo,
		orderRepo:       orderRepo,
		userRepo:        userRepo,
		reviewRepo:      reviewRepo,
	}
}

// Dashboard gathers reservation, order, user and review statistics
func (s *adminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	totalReservations, err := s.reservationRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation stats: %w", err)
	}
	pendingReservations, err := s.reservationRepo.CountByStatus(ctx, domain.ReservationBooked)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation stats: %w", err)
	}

	totalOrders, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load order stats: %w", err)
	}
	pendingOrders, err := s.orderRepo.CountByStatus(ctx, domain.OrderPending)
	if err != nil {
		return nil, fmt.Errorf("failed to load order stats: %w", err)
	}
	revenue, err := s.orderRepo.RevenueTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load order stats: %w", err)
	}

	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}

	totalReviews, err := s.reviewRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load review stats: %w", err)
	}
	avgRating, err := s.reviewRepo.AverageRating(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load review stats: %w", err)
	}

	return &DashboardStats{
		Reservations: ReservationStats{Total: totalReservations, Pending: pendingReservations},
		Orders:       OrderStats{Total: totalOrders, Pending: pendingOrders, TotalRevenue: revenue},
		Users:        UserStats{Total: totalUsers},
		Reviews:      ReviewStats{Total: totalReviews, AverageRating: avgRating},
	}, nil
}

// ListUsers retrieves registered users newest first
func (s *adminService) ListUsers(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	return s.userRepo.ListAll(ctx, offset, limit)
}
