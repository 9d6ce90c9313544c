package risk

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/banking/withdrawal-risk-service/internal/domain"
)

// BankAccountDetector flags users spreading withdrawals across an unusual
// number of distinct bank accounts.
type BankAccountDetector struct{}

const maxNormalBankAccounts = 2

func (d *BankAccountDetector) Type() domain.SignalType {
	return domain.SignalMultipleBankAccounts
}

func (d *BankAccountDetector) Detect(w Windows) *domain.RiskSignal {
	accounts := make(map[uuid.UUID]struct{})
	for i := range w.All {
		accounts[w.All[i].BankAccountID] = struct{}{}
	}

	n := len(accounts)
	if n <= maxNormalBankAccounts {
		return nil
	}

	var severity domain.Severity
	var score int
	switch {
	case n >= 5:
		severity = domain.SeverityHigh
		score = 75 + 5*(n-5)
		if score > 100 {
			score = 100
		}
	case n == 4:
		severity = domain.SeverityMedium
		score = 60
	default: // n == 3
		severity = domain.SeverityLow
		score = 40
	}

	return &domain.RiskSignal{
		Type:     domain.SignalMultipleBankAccounts,
		Severity: severity,
		Score:    score,
		Explanation: fmt.Sprintf(
			"withdrawals sent to %d distinct bank accounts across %d withdrawals",
			n, len(w.All),
		),
		Metadata: map[string]string{
			"distinct_accounts": fmt.Sprintf("%d", n),
			"total_withdrawals": fmt.Sprintf("%d", len(w.All)),
		},
	}
}
