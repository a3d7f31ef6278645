package oracle

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jbrukh/bayesian"

	"github.com/noora-ekramy/accounting-demo/internal/model"
)

// Bayes is a naive Bayes classifier trained on previously accepted journal
// entries. It learns which accounts past descriptions landed in, so the
// engine can keep categorizing offline once enough history exists.
type Bayes struct {
	classifier *bayesian.Classifier
	trained    int
}

// NewBayes trains a classifier from accepted journal legs. Legs posted to
// counterAccountID are skipped: the cash side appears in every entry and
// carries no signal. At least two distinct accounts are required.
func NewBayes(legs []model.Leg, counterAccountID int) (*Bayes, error) {
	byAccount := make(map[int][]model.Leg)
	for _, leg := range legs {
		if leg.AccountID == counterAccountID || leg.Status == model.StatusVoided {
			continue
		}
		byAccount[leg.AccountID] = append(byAccount[leg.AccountID], leg)
	}

	if len(byAccount) < 2 {
		return nil, fmt.Errorf("need history across at least 2 accounts, have %d", len(byAccount))
	}

	classes := make([]bayesian.Class, 0, len(byAccount))
	for id := range byAccount {
		classes = append(classes, bayesian.Class(strconv.Itoa(id)))
	}

	classifier := bayesian.NewClassifier(classes...)
	trained := 0
	for id, accountLegs := range byAccount {
		class := bayesian.Class(strconv.Itoa(id))
		for _, leg := range accountLegs {
			words := descriptionWords(leg.Description)
			if len(words) == 0 {
				continue
			}
			classifier.Learn(words, class)
			trained++
		}
	}

	return &Bayes{classifier: classifier, trained: trained}, nil
}

// Name returns the classifier name for logging.
func (b *Bayes) Name() string { return "bayes" }

// Classify scores the description against every learned account and
// returns the best match, constrained to the candidate list.
func (b *Bayes) Classify(_ context.Context, description string, candidates []model.Account) ([]Candidate, error) {
	words := descriptionWords(description)
	if len(words) == 0 {
		return nil, nil
	}

	allowed := make(map[int]bool, len(candidates))
	for _, a := range candidates {
		allowed[a.ID] = true
	}

	scores, best, _ := b.classifier.ProbScores(words)
	if best < 0 || best >= len(b.classifier.Classes) {
		return nil, nil
	}

	accountID, err := strconv.Atoi(string(b.classifier.Classes[best]))
	if err != nil || !allowed[accountID] {
		return nil, nil
	}

	return []Candidate{{
		AccountID:  accountID,
		Confidence: clamp(scores[best]),
		Rationale:  fmt.Sprintf("matched %d prior entries for this account", b.trained),
	}}, nil
}

func descriptionWords(description string) []string {
	return strings.Fields(strings.ToLower(description))
}
