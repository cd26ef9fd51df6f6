package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/octobees/movescout/internal/entity"
	"github.com/octobees/movescout/internal/matcher"
)

const (
	defaultPhoneRegion = "US"
	fileTimeLayout     = "20060102_150405"
)

// Render writes the plaintext shortlist report for req to w.
func Render(w io.Writer, req entity.CustomerRequest, companies []entity.EnrichedCompany) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "MOVING COMPANIES SEARCH RESULTS")
	fmt.Fprintln(bw, strings.Repeat("=", 50))
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "CUSTOMER INFORMATION:")
	fmt.Fprintln(bw, strings.Repeat("-", 20))
	for _, f := range req.Fields() {
		fmt.Fprintf(bw, "%s: %s\n", humanize(f.Key), f.Value)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "TOP 5 MOVING COMPANIES:")
	fmt.Fprintln(bw, strings.Repeat("-", 30))
	fmt.Fprintln(bw)

	for i, c := range companies {
		fmt.Fprintf(bw, "%d. %s\n", i+1, orDefault(c.Name, "Unknown Company"))
		fmt.Fprintf(bw, "   Description: %s\n", orDefault(c.Description, "No description available"))
		fmt.Fprintf(bw, "   Website: %s\n", orDefault(c.URL, "No website available"))
		if c.Contact.Phone != "" {
			fmt.Fprintf(bw, "   Phone: %s\n", DisplayPhone(c.Contact.Phone))
		}
		if c.Contact.Email != "" {
			fmt.Fprintf(bw, "   Email: %s\n", c.Contact.Email)
		}
		if c.Services.Len() > 0 {
			fmt.Fprintf(bw, "   Services: %s\n", strings.Join(c.Services.Slice(), ", "))
		}
		if c.Quotation.EstimatedCost != "" {
			fmt.Fprintf(bw, "   Estimated Cost: %s\n", c.Quotation.EstimatedCost)
		}
		if c.Quotation.CostRange != "" {
			fmt.Fprintf(bw, "   Cost Range: %s\n", c.Quotation.CostRange)
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw, "SUMMARY:")
	fmt.Fprintln(bw, strings.Repeat("-", 10))
	fmt.Fprintf(bw, "Found %d moving companies matching your criteria.\n", len(companies))
	fmt.Fprintln(bw, "Contact information and estimated costs are provided above.")
	fmt.Fprintln(bw, "Please contact each company directly for detailed quotes.")

	return bw.Flush()
}

// DisplayPhone formats a phone number in US national style when it parses,
// and returns it unchanged otherwise.
func DisplayPhone(raw string) string {
	num, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil || !phonenumbers.IsPossibleNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL)
}

// FileName returns the report file name for a run started at t.
func FileName(t time.Time) string {
	return "moving_companies_search_" + t.Format(fileTimeLayout) + ".txt"
}

// Writer stores reports as files in a directory.
type Writer struct {
	dir string
}

// NewWriter returns a writer for dir.
func NewWriter(dir string) *Writer {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	return &Writer{dir: dir}
}

// WriteFile renders the report into the writer's directory and returns its path.
func (w *Writer) WriteFile(req entity.CustomerRequest, companies []entity.EnrichedCompany, at time.Time) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(w.dir, FileName(at))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}

	if err := Render(f, req, companies); err != nil {
		f.Close()
		return "", fmt.Errorf("render report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	return path, nil
}

func humanize(key string) string {
	return matcher.TitleCase(strings.ReplaceAll(key, "_", " "))
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
