// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"strconv"
	"time"

	"github.com/ava-labs/leasevm/leasevm"
)

type slotView struct {
	SlotID string `json:"slotID" yaml:"slotID"`
}

func (v slotView) columns() []string { return []string{"slot"} }
func (v slotView) row() []string     { return []string{v.SlotID} }

type assetView struct {
	SlotID        string `json:"slotID" yaml:"slotID"`
	Label         string `json:"label" yaml:"label"`
	Category      string `json:"category" yaml:"category"`
	Year          string `json:"year" yaml:"year"`
	DeclaredValue string `json:"declaredValue" yaml:"declaredValue"`
	UsageLimit    string `json:"usageLimit" yaml:"usageLimit"`
}

func newAssetView(a *leasevm.AssetReply) assetView {
	return assetView{
		SlotID:        formatUint(uint64(a.SlotID)),
		Label:         a.Label,
		Category:      a.Category,
		Year:          formatUint(uint64(a.Year)),
		DeclaredValue: formatUint(uint64(a.DeclaredValue)),
		UsageLimit:    formatUint(uint64(a.UsageLimit)),
	}
}

func (v assetView) columns() []string {
	return []string{"slot", "label", "category", "year", "declared value", "usage limit"}
}

func (v assetView) row() []string {
	return []string{v.SlotID, v.Label, v.Category, v.Year, v.DeclaredValue, v.UsageLimit}
}

type leaseView struct {
	Holder            string `json:"holder" yaml:"holder"`
	Phase             string `json:"phase" yaml:"phase"`
	TermLength        string `json:"termLength" yaml:"termLength"`
	PeriodAmount      string `json:"periodAmount" yaml:"periodAmount"`
	Deposit           string `json:"deposit" yaml:"deposit"`
	PeriodsPaid       string `json:"periodsPaid" yaml:"periodsPaid"`
	LastPaymentTime   string `json:"lastPaymentTime" yaml:"lastPaymentTime"`
	AdmissionDeadline string `json:"admissionDeadline" yaml:"admissionDeadline"`
	ActivationTime    string `json:"activationTime" yaml:"activationTime"`
	Reason            string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

func newLeaseView(l *leasevm.LeaseReply) leaseView {
	return leaseView{
		Holder:            l.Holder.String(),
		Phase:             l.Phase,
		TermLength:        formatUint(uint64(l.TermLength)),
		PeriodAmount:      formatUint(uint64(l.PeriodAmount)),
		Deposit:           formatUint(uint64(l.Deposit)),
		PeriodsPaid:       formatUint(uint64(l.PeriodsPaid)),
		LastPaymentTime:   formatTime(uint64(l.LastPaymentTime)),
		AdmissionDeadline: formatTime(uint64(l.AdmissionDeadline)),
		ActivationTime:    formatTime(uint64(l.ActivationTime)),
		Reason:            l.Reason,
	}
}

func (v leaseView) columns() []string {
	return []string{"holder", "phase", "term", "period amount", "deposit", "paid", "last payment", "reason"}
}

func (v leaseView) row() []string {
	return []string{v.Holder, v.Phase, v.TermLength, v.PeriodAmount, v.Deposit, v.PeriodsPaid, v.LastPaymentTime, v.Reason}
}

type commitmentView struct {
	Digest         string `json:"digest" yaml:"digest"`
	Committer      string `json:"committer" yaml:"committer"`
	RevealDeadline string `json:"revealDeadline" yaml:"revealDeadline"`
	Valid          bool   `json:"valid" yaml:"valid"`
}

func newCommitmentView(c *leasevm.CommitmentReply, valid bool) commitmentView {
	return commitmentView{
		Digest:         c.Digest.String(),
		Committer:      c.Committer.String(),
		RevealDeadline: formatTime(uint64(c.RevealDeadline)),
		Valid:          valid,
	}
}

func (v commitmentView) columns() []string {
	return []string{"digest", "committer", "reveal deadline", "valid"}
}

func (v commitmentView) row() []string {
	return []string{v.Digest, v.Committer, v.RevealDeadline, strconv.FormatBool(v.Valid)}
}

type quoteView struct {
	PeriodAmount string `json:"periodAmount" yaml:"periodAmount"`
	Deposit      string `json:"deposit" yaml:"deposit"`
}

func (v quoteView) columns() []string { return []string{"period amount", "deposit"} }
func (v quoteView) row() []string     { return []string{v.PeriodAmount, v.Deposit} }

type digestView struct {
	Digest string `json:"digest" yaml:"digest"`
}

func (v digestView) columns() []string { return []string{"digest"} }
func (v digestView) row() []string     { return []string{v.Digest} }

type amountView struct {
	Name   string `json:"-" yaml:"-"`
	Amount string `json:"amount" yaml:"amount"`
}

func (v amountView) columns() []string { return []string{v.Name} }
func (v amountView) row() []string     { return []string{v.Amount} }

type statusView struct {
	Slot   string `json:"slotID" yaml:"slotID"`
	Status string `json:"status" yaml:"status"`
}

func (v statusView) columns() []string { return []string{"slot", "status"} }
func (v statusView) row() []string     { return []string{v.Slot, v.Status} }

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func formatTime(unix uint64) string {
	if unix == 0 {
		return "-"
	}
	return time.Unix(int64(unix), 0).UTC().Format(time.RFC3339)
}
