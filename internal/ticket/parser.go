// Package ticket turns raw support-ticket text into structured records and
// grades how much usable data a record carries.
package ticket

import (
	"strings"

	"github.com/Pradipwasre/xumo-support-ai/pkg/models"
)

// Labeled-line prefixes recognized by the parser. Matching is case-sensitive
// and first-match-wins in the order checked by Parse.
const (
	prefixIssue   = "Issue Description:"
	prefixName    = "Customer Name:"
	prefixContact = "Contact Number:"
	prefixEmail   = "Email:"
	prefixDevice  = "Device Details:"
	prefixSteps   = "Troubleshooting Steps"
	prefixMAC     = "MAC Address:"
	prefixSerial  = "Serial Number:"
)

// Checkmark glyphs that mark a troubleshooting step as completed.
var completedGlyphs = []string{"✅", "✔️"}

type section int

const (
	sectionNone section = iota
	sectionDevice
	sectionTroubleshooting
)

// Parse converts raw ticket text into a structured record. It never fails:
// lines that match no rule are dropped and the corresponding fields keep
// their zero values.
func Parse(raw string) models.TicketRecord {
	rec := models.TicketRecord{
		RawText:       raw,
		DeviceDetails: map[string]string{},
	}

	current := sectionNone

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, prefixIssue):
			rec.IssueDescription = valueAfter(line, prefixIssue)
		case strings.HasPrefix(line, prefixName):
			rec.CustomerName = valueAfter(line, prefixName)
		case strings.HasPrefix(line, prefixContact):
			rec.ContactNumber = valueAfter(line, prefixContact)
		case strings.HasPrefix(line, prefixEmail):
			rec.Email = valueAfter(line, prefixEmail)
		case strings.HasPrefix(line, prefixDevice):
			current = sectionDevice
		case strings.HasPrefix(line, prefixSteps):
			current = sectionTroubleshooting
		case strings.HasPrefix(line, prefixMAC):
			// Device identifiers are claimed by their own prefix no matter
			// which section is active.
			rec.DeviceDetails["mac_address"] = valueAfter(line, prefixMAC)
		case strings.HasPrefix(line, prefixSerial):
			rec.DeviceDetails["serial_number"] = valueAfter(line, prefixSerial)
		case current == sectionTroubleshooting && isCompletedStep(line):
			if step := stripGlyphs(line); step != "" {
				rec.TroubleshootingCompleted = append(rec.TroubleshootingCompleted, step)
			}
		case strings.Contains(strings.ToLower(line), "escalat"):
			// Last matching line wins.
			rec.EscalationStatus = line
		}
	}

	return rec
}

func valueAfter(line, prefix string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, prefix))
}

func isCompletedStep(line string) bool {
	for _, g := range completedGlyphs {
		if strings.Contains(line, g) {
			return true
		}
	}
	return false
}

func stripGlyphs(line string) string {
	for _, g := range completedGlyphs {
		line = strings.ReplaceAll(line, g, "")
	}
	return strings.TrimSpace(line)
}
