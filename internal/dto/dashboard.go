package dto

import "nbd-crr/internal/pipeline"

type DashboardStatsDTO struct {
	TotalEnquiries  int                     `json:"totalEnquiries"`
	TotalQuotations int                     `json:"totalQuotations"`
	Revenue         float64                 `json:"revenue"`
	TotalOrders     int                     `json:"totalOrders"`
	ConversionRate  int                     `json:"conversionRate"`
	StageBreakdown  map[string]int          `json:"stageBreakdown"`
	OrderStatus     pipeline.OrderBreakdown `json:"orderStatus"`
	PendingTasks    int                     `json:"pendingTasks"`
	PendingList     []pipeline.PendingTask  `json:"pendingList"`
	LostReasons     []pipeline.ReasonStat   `json:"lostReasons"`
	HoldReasons     []pipeline.ReasonStat   `json:"holdReasons"`
	// Failed - ветки, которые упали и отданы нулями.
	Failed []string `json:"failed,omitempty"`
}

type StageViewDTO struct {
	Stage   pipeline.Stage         `json:"stage"`
	Title   string                 `json:"title"`
	Pending []pipeline.PendingTask `json:"pending"`
	Count   int                    `json:"count"`
}

type StageHistoryDTO struct {
	Stage pipeline.Stage        `json:"stage"`
	Title string                `json:"title"`
	Table pipeline.HistoryTable `json:"table"`
}

type SequencePreviewDTO struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}
