// Package metrics exposes the prometheus collectors used by the import pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsImported counts rows actually inserted, by source tag.
	TransactionsImported = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bankbook",
		Name:      "transactions_imported_total",
		Help:      "Transactions inserted into storage, labelled by import source.",
	}, []string{"source"})

	// DuplicatesSkipped counts drafts rejected by the trace hash constraint.
	DuplicatesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bankbook",
		Name:      "duplicates_skipped_total",
		Help:      "Drafts skipped because their trace hash already exists.",
	}, []string{"source"})

	// DocumentsParsed counts statement documents parsed, by bank code and outcome.
	DocumentsParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bankbook",
		Name:      "documents_parsed_total",
		Help:      "Statement documents run through a bank parser.",
	}, []string{"bank_code", "outcome"})

	// ScreenshotsRecognized counts OCR screenshot recognitions, by bank code and outcome.
	ScreenshotsRecognized = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bankbook",
		Name:      "screenshots_recognized_total",
		Help:      "Screenshot images run through OCR field recovery.",
	}, []string{"bank_code", "outcome"})

	// AccountBalance tracks the current computed balance per account.
	AccountBalance = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "bankbook",
		Name:      "account_balance",
		Help:      "Computed balance (initial balance plus transaction sum) per account.",
	}, []string{"account_name", "bank_code"})
)
