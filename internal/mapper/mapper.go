package mapper

import (
	"github.com/solemia/studio-api/internal/analytics"
	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/domain"
)

const dateFormat = "2006-01-02"
const timestampFormat = "2006-01-02T15:04:05Z"

// ToTenantDTO converts Tenant to TenantDTO
func ToTenantDTO(tenant *domain.Tenant) domain.TenantDTO {
	return domain.TenantDTO{
		ID:        tenant.ID,
		Name:      tenant.Name,
		ShortName: tenant.ShortName,
		Color:     tenant.Color,
		Logo:      tenant.Logo,
		IsActive:  tenant.IsActive,
	}
}

// ToClientDTO converts Client to ClientDTO
func ToClientDTO(client *domain.Client) domain.ClientDTO {
	return domain.ClientDTO{
		ID:        client.ID,
		Name:      client.Name,
		Phone:     client.Phone,
		Email:     client.Email,
		Notes:     client.Notes,
		CreatedAt: client.CreatedAt.Format(timestampFormat),
		UpdatedAt: client.UpdatedAt.Format(timestampFormat),
	}
}

// ToClientProfileDTO converts a computed profile to its API shape
func ToClientProfileDTO(profile *analytics.ClientProfile) domain.ClientProfileDTO {
	return domain.ClientProfileDTO{
		Name:               profile.Name,
		Phone:              profile.Phone,
		Email:              profile.Email,
		TotalSpent:         profile.TotalSpent,
		VisitCount:         profile.VisitCount,
		AvgSpent:           profile.AvgSpent,
		AvgNps:             profile.AvgNps,
		FavoriteService:    profile.FavoriteService,
		LastVisit:          profile.LastVisit.Format(dateFormat),
		DaysSinceLastVisit: profile.DaysSinceLastVisit,
		Segment:            string(profile.Segment),
		CustomSegments:     profile.CustomSegments,
		Insights:           profile.Insights,
	}
}

// ToDirectorySummaryDTO converts a computed directory summary
func ToDirectorySummaryDTO(summary *analytics.DirectorySummary) domain.DirectorySummaryDTO {
	return domain.DirectorySummaryDTO{
		ClientCount:      summary.ClientCount,
		AvgLifetimeValue: summary.AvgLifetimeValue,
		NewClientCount:   summary.NewClientCount,
		AvgNps:           summary.AvgNps,
	}
}

// ToVisitDTO converts Visit to VisitDTO
func ToVisitDTO(visit *domain.Visit) domain.VisitDTO {
	return domain.VisitDTO{
		ID:          visit.ID,
		ClientName:  visit.ClientName,
		Date:        visit.Date.Format(dateFormat),
		OccurredAt:  visit.OccurredAt.Format(timestampFormat),
		ServiceName: visit.ServiceName,
		Category:    visit.Category,
		Amount:      visit.Amount,
		StaffName:   visit.StaffName,
		NPS:         visit.NPS,
		Insight:     visit.Insight,
		IsNewClient: visit.IsNewClient,
		Commission:  visit.Commission,
	}
}

// ToSegmentDTO converts Segment to SegmentDTO
func ToSegmentDTO(segment *domain.Segment) domain.SegmentDTO {
	return domain.SegmentDTO{
		ID:        segment.ID,
		Name:      segment.Name,
		Color:     segment.Color,
		Rules:     segment.Rules,
		CreatedAt: segment.CreatedAt.Format(timestampFormat),
	}
}

// ToAttachmentDTO converts Attachment to AttachmentDTO
func ToAttachmentDTO(attachment *domain.Attachment) domain.AttachmentDTO {
	return domain.AttachmentDTO{
		ID:          attachment.ID,
		Filename:    attachment.Filename,
		ContentType: attachment.ContentType,
		Size:        attachment.Size,
		ClientID:    attachment.ClientID,
		UploadedBy:  attachment.UploadedBy,
		CreatedAt:   attachment.CreatedAt.Format(timestampFormat),
	}
}

// ToIntervalDTO converts an analytics interval to its API shape
func ToIntervalDTO(iv analytics.Interval) domain.IntervalDTO {
	return domain.IntervalDTO{
		Start: iv.Start.Format(dateFormat),
		End:   iv.End.Format(dateFormat),
	}
}

// ToPeriodKPIsDTO converts computed KPIs to their API shape
func ToPeriodKPIsDTO(kpis *analytics.PeriodKPIs) domain.PeriodKPIsDTO {
	return domain.PeriodKPIsDTO{
		Revenue:          kpis.Revenue,
		AppointmentCount: kpis.AppointmentCount,
		AvgTicket:        kpis.AvgTicket,
		AvgSatisfaction:  kpis.AvgSatisfaction,
		RetentionRate:    kpis.RetentionRate,
	}
}

// ToKPIDeltasDTO converts computed deltas to their API shape
func ToKPIDeltasDTO(deltas *analytics.KPIDeltas) domain.KPIDeltasDTO {
	return domain.KPIDeltasDTO{
		Revenue:          deltas.Revenue,
		AppointmentCount: deltas.AppointmentCount,
		AvgTicket:        deltas.AvgTicket,
		AvgSatisfaction:  deltas.AvgSatisfaction,
		RetentionRate:    deltas.RetentionRate,
	}
}

// ToRevenuePointDTOs converts a revenue series to its API shape
func ToRevenuePointDTOs(series []analytics.SeriesPoint) []domain.RevenuePointDTO {
	dtos := make([]domain.RevenuePointDTO, len(series))
	for i, point := range series {
		dtos[i] = domain.RevenuePointDTO{
			Date:            point.Date.Format(dateFormat),
			Revenue:         point.Revenue,
			PreviousRevenue: point.PreviousRevenue,
		}
	}
	return dtos
}

// ToStaffStatsDTOs converts a staff breakdown to its API shape
func ToStaffStatsDTOs(rows []analytics.StaffPerformance) []domain.StaffStatsDTO {
	dtos := make([]domain.StaffStatsDTO, len(rows))
	for i, row := range rows {
		dtos[i] = domain.StaffStatsDTO{
			StaffName:  row.StaffName,
			Revenue:    row.Revenue,
			Count:      row.Count,
			Commission: row.Commission,
			AvgNps:     row.AvgNps,
		}
	}
	return dtos
}

// ToSalesSliceDTOs converts sales slices to their API shape
func ToSalesSliceDTOs(slices []analytics.SalesSlice) []domain.SalesSliceDTO {
	dtos := make([]domain.SalesSliceDTO, len(slices))
	for i, slice := range slices {
		dtos[i] = domain.SalesSliceDTO{
			Name:    slice.Name,
			Revenue: slice.Revenue,
			Count:   slice.Count,
			DrillDown: domain.SalesDrillDownDTO{
				SearchTerm: slice.DrillDown.SearchTerm,
				StartDate:  slice.DrillDown.StartDate.Format(dateFormat),
				EndDate:    slice.DrillDown.EndDate.Format(dateFormat),
			},
		}
	}
	return dtos
}

// ToAuthUserDTO converts an authenticated user context to its API shape
func ToAuthUserDTO(userCtx *auth.UserContext, tenant *domain.Tenant) domain.AuthUserDTO {
	dto := domain.AuthUserDTO{
		ID:       userCtx.UserID,
		Name:     userCtx.DisplayName,
		Email:    userCtx.Email,
		Roles:    userCtx.RolesAsStrings(),
		Initials: userCtx.GetDisplayNameInitials(),
		IsOwner:  userCtx.IsOwner(),
	}

	if tenant != nil {
		tenantDTO := ToTenantDTO(tenant)
		dto.Tenant = &tenantDTO
	}

	return dto
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:    user.ID,
		Name:  user.DisplayName,
		Email: user.Email,
		Roles: user.Roles,
	}
}
