package authenticity

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/flate"
	"golang.org/x/crypto/blake2b"

	"kyccore/internal/kyc/files"
	"kyccore/internal/policy"
)

// Check names, in fold order.
const (
	CheckNameMetadata     = "metadata"
	CheckNameManipulation = "manipulation"
	CheckNameQuality      = "quality"
	CheckNameConsistency  = "consistency"
	CheckNamePatterns     = "patterns"
	CheckNameIntegrity    = "integrity"
)

// Document is one side of a submission as loaded at analysis time.
// StatErr and ReadErr record lookup failures instead of aborting, so the
// integrity check can report them.
type Document struct {
	Side    string
	Info    files.Info
	Content []byte
	StatErr error
	ReadErr error
	// Truncated is set when the file exceeded the read limit; Content then
	// holds only the first MaxReadSize bytes.
	Truncated bool
}

// Name is the file name checked by the filename heuristics.
func (d Document) Name() string {
	if d.Info.Name != "" {
		return d.Info.Name
	}
	return files.BaseName(d.Info.Ref)
}

// Finding is the partial result of one check on one document (or pair).
type Finding struct {
	Check        string
	RiskFactors  []string
	Deduction    int
	Manipulation bool
	// Hash is set by the metadata check.
	Hash string
}

// Score is the quality score implied by this finding alone.
func (f Finding) Score() int {
	return 100 - f.Deduction
}

func (f *Finding) flag(cost int, format string, args ...any) {
	f.RiskFactors = append(f.RiskFactors, fmt.Sprintf(format, args...))
	f.Deduction += cost
}

// CheckMetadata flags implausible sizes and files created moments before
// analysis, and hashes the content for denylist matching.
func CheckMetadata(doc Document, p policy.AuthenticityPolicy, now time.Time) Finding {
	f := Finding{Check: CheckNameMetadata}
	if doc.StatErr != nil {
		return f
	}
	if doc.ReadErr == nil {
		sum := blake2b.Sum256(doc.Content)
		f.Hash = hex.EncodeToString(sum[:])
	}
	if size := doc.Info.Size; size < p.MinPlausibleSize || size > p.MaxPlausibleSize {
		f.flag(p.ImplausibleSizeCost, "%s: file size outside plausible range", doc.Side)
	}
	if age := now.Sub(doc.Info.CreatedAt); age >= 0 && age < p.FreshFileWindow {
		f.flag(p.FreshFileCost, "%s: file created moments before submission", doc.Side)
	}
	return f
}

// expectedMIME maps allowed extensions to the content type they must sniff as.
var expectedMIME = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"pdf":  "application/pdf",
}

// compressedFormats already carry entropy-coded payloads; deflate should
// barely shrink them.
var compressedFormats = map[string]bool{"jpg": true, "jpeg": true, "png": true}

// minProbeSize is the smallest payload whose compressibility is meaningful.
const minProbeSize = 1024

// CheckManipulation scans raw bytes for editor signatures, probes the
// compressibility of compressed formats and compares the sniffed content
// type with the extension. Any trigger marks the document as manipulated.
func CheckManipulation(doc Document, p policy.AuthenticityPolicy) Finding {
	f := Finding{Check: CheckNameManipulation}
	if doc.StatErr != nil || doc.ReadErr != nil || len(doc.Content) == 0 {
		return f
	}

	lower := bytes.ToLower(doc.Content)
	for _, sig := range p.EditorSignatures {
		if sig != "" && bytes.Contains(lower, []byte(sig)) {
			f.RiskFactors = append(f.RiskFactors, fmt.Sprintf("%s: image editor signature detected: %s", doc.Side, sig))
			f.Manipulation = true
		}
	}

	ext := files.Ext(doc.Name())
	if compressedFormats[ext] {
		probe := doc.Content
		if p.CompressionProbeBytes > 0 && len(probe) > p.CompressionProbeBytes {
			probe = probe[:p.CompressionProbeBytes]
		}
		if len(probe) >= minProbeSize {
			if ratio, err := compressionRatio(probe); err == nil && ratio < p.MinCompressionRatio {
				f.RiskFactors = append(f.RiskFactors, fmt.Sprintf("%s: implausible compression for %s content", doc.Side, ext))
				f.Manipulation = true
			}
		}
	}

	if want, ok := expectedMIME[ext]; ok {
		if got := mimetype.Detect(doc.Content); !got.Is(want) {
			f.RiskFactors = append(f.RiskFactors, fmt.Sprintf("%s: content type %s does not match extension %s", doc.Side, got.String(), ext))
			f.Manipulation = true
		}
	}
	return f
}

type byteCounter int64

func (c *byteCounter) Write(p []byte) (int, error) {
	*c += byteCounter(len(p))
	return len(p), nil
}

// compressionRatio returns deflated size over original size.
func compressionRatio(data []byte) (float64, error) {
	var counter byteCounter
	w, err := flate.NewWriter(&counter, flate.BestSpeed)
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return float64(counter) / float64(len(data)), nil
}

// CheckQuality deducts for small files, filenames that suggest an edited
// copy and very recent files.
func CheckQuality(doc Document, p policy.AuthenticityPolicy, now time.Time) Finding {
	f := Finding{Check: CheckNameQuality}
	if doc.StatErr != nil {
		return f
	}
	if doc.Info.Size < p.LowQualitySize {
		f.flag(p.LowQualityCost, "%s: low file size", doc.Side)
	}
	name := strings.ToLower(doc.Name())
	for _, word := range p.QualityWords {
		if word != "" && strings.Contains(name, word) {
			f.flag(p.QualityWordCost, "%s: filename suggests an edited copy: %s", doc.Side, word)
		}
	}
	if age := now.Sub(doc.Info.CreatedAt); age >= 0 && age < p.RecentFileAge {
		f.flag(p.RecentFileCost, "%s: very recent file", doc.Side)
	}
	return f
}

// CheckConsistency compares the two sides of a document. It only applies
// when a back file was submitted.
func CheckConsistency(front, back Document, p policy.AuthenticityPolicy) Finding {
	f := Finding{Check: CheckNameConsistency}
	if front.StatErr != nil || back.StatErr != nil {
		return f
	}

	small, large := front.Info.Size, back.Info.Size
	if small > large {
		small, large = large, small
	}
	if small <= 0 || float64(large)/float64(small) > p.MaxSizeRatio {
		f.flag(p.InconsistencyCost, "front/back file size mismatch")
	}

	delta := front.Info.CreatedAt.Sub(back.Info.CreatedAt)
	if delta < 0 {
		delta = -delta
	}
	if delta > p.MaxCreationDelta {
		f.flag(p.InconsistencyCost, "front/back creation time mismatch")
	}

	if files.Ext(front.Name()) != files.Ext(back.Name()) {
		f.flag(p.InconsistencyCost, "front/back file format mismatch")
	}
	return f
}

// CheckPatterns matches the filename against suspicious keywords, long digit
// runs, special-character density and excessive length. A keyword hit marks
// manipulation when the policy says so.
func CheckPatterns(doc Document, p policy.AuthenticityPolicy) Finding {
	f := Finding{Check: CheckNamePatterns}
	name := doc.Name()
	lower := strings.ToLower(name)

	for _, kw := range p.SuspiciousKeywords {
		if kw != "" && strings.Contains(lower, kw) {
			f.RiskFactors = append(f.RiskFactors, fmt.Sprintf("%s: suspicious keyword in filename: %s", doc.Side, kw))
			if p.KeywordImpliesManipulation {
				f.Manipulation = true
			}
		}
	}
	if p.MaxDigitRun > 0 && longestDigitRun(name) >= p.MaxDigitRun {
		f.RiskFactors = append(f.RiskFactors, fmt.Sprintf("%s: long digit run in filename", doc.Side))
	}
	if density := specialCharDensity(name); density > p.MaxSpecialCharDensity {
		f.RiskFactors = append(f.RiskFactors, fmt.Sprintf("%s: unusual special characters in filename", doc.Side))
	}
	if p.MaxFilenameLength > 0 && len(name) > p.MaxFilenameLength {
		f.RiskFactors = append(f.RiskFactors, fmt.Sprintf("%s: excessive filename length", doc.Side))
	}
	return f
}

func longestDigitRun(s string) int {
	longest, run := 0, 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return longest
}

// specialCharDensity counts runes that are neither letters, digits nor the
// usual filename separators.
func specialCharDensity(s string) float64 {
	if s == "" {
		return 0
	}
	total, special := 0, 0
	for _, r := range s {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("._- ", r) {
			continue
		}
		special++
	}
	return float64(special) / float64(total)
}

// CheckIntegrity confirms the file still exists, is non-empty and is
// readable by its owner at analysis time.
func CheckIntegrity(doc Document, p policy.AuthenticityPolicy) Finding {
	f := Finding{Check: CheckNameIntegrity}
	switch {
	case doc.StatErr != nil:
		f.flag(p.IntegrityPenalty, "%s: file missing at analysis time", doc.Side)
	case doc.Info.Size == 0:
		f.flag(p.IntegrityPenalty, "%s: file is empty", doc.Side)
	case !doc.Info.OwnerReadable() || doc.ReadErr != nil:
		f.flag(p.IntegrityPenalty, "%s: file is not readable", doc.Side)
	case doc.Truncated:
		f.flag(p.IntegrityPenalty, "%s: file exceeds the read limit", doc.Side)
	}
	return f
}
