package maintenance

import "hotelops/internal/domain"

type CreateBlockRequest struct {
	Room         string `json:"room" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
	BlockedUntil string `json:"blockedUntil" binding:"required"`
	BlockedBy    string `json:"blockedBy"`
}

type BlockResponse struct {
	ID           int64  `json:"id"`
	Room         string `json:"room"`
	Reason       string `json:"reason"`
	BlockedUntil string `json:"blockedUntil"`
	BlockedBy    string `json:"blockedBy"`
}

func toResponse(b domain.RoomBlock) BlockResponse {
	by := b.BlockedBy
	if by == "" {
		by = "-"
	}
	return BlockResponse{
		ID:           b.ID,
		Room:         b.RoomCode,
		Reason:       b.Reason,
		BlockedUntil: domain.FormatDate(b.BlockedUntil),
		BlockedBy:    by,
	}
}

func toResponses(list []domain.RoomBlock) []BlockResponse {
	out := make([]BlockResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toResponse(b))
	}
	return out
}
