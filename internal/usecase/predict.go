package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/ai"
	"github.com/ranqi-ly/soul-matrix-ai/internal/config"
	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

const predictKeyPrefix = "predict:"

// defaultPredictScore is used when no score can be extracted from the
// model's free-text answer.
const defaultPredictScore = 75

var defaultRecommendations = []string{
	"Spend unhurried time together and observe how you handle everyday decisions.",
	"Talk openly about long-term expectations before making big commitments.",
	"Revisit this analysis after a few months of knowing each other better.",
}

// PredictService is the lightweight free-text variant of the assessment.
// It sends unstructured profiles, parses the sectioned text reply and caches
// the parsed prediction keyed by a digest of both profiles, so identical
// profile pairs do not hit the model twice.
type PredictService struct {
	Cfg   config.Config
	AI    domain.AIClient
	Cache domain.Cache
}

func NewPredictService(cfg config.Config, client domain.AIClient, cache domain.Cache) PredictService {
	return PredictService{Cfg: cfg, AI: client, Cache: cache}
}

func (s PredictService) Run(ctx context.Context, p1, p2 domain.PredictProfile) (domain.Prediction, error) {
	if err := s.Cfg.ValidateAI(); err != nil {
		return domain.Prediction{}, err
	}
	if p1.Name == "" || p2.Name == "" {
		return domain.Prediction{}, fmt.Errorf("%w: both profiles need at least a name", domain.ErrInvalidArgument)
	}

	key := predictKeyPrefix + profileDigest(p1, p2)
	if b, err := s.Cache.Get(ctx, key); err == nil {
		var cached domain.Prediction
		if err := json.Unmarshal(b, &cached); err == nil {
			cached.Cached = true
			slog.Debug("prediction served from cache", slog.String("key", key))
			return cached, nil
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		slog.Warn("prediction cache read failed", slog.Any("error", err))
	}

	builder := ai.PromptBuilder{Localized: s.Cfg.LocalizedFields}
	system, user := builder.BuildPredict(p1, p2)
	raw, err := s.AI.ChatJSON(ctx, system, user)
	if err != nil {
		return domain.Prediction{}, err
	}

	pred := parsePrediction(raw)
	if b, err := json.Marshal(pred); err == nil {
		if err := s.Cache.Put(ctx, key, b, s.Cfg.ResultCacheTTL); err != nil {
			slog.Warn("prediction cache write failed", slog.Any("error", err))
		}
	}
	return pred, nil
}

// profileDigest gives a stable cache key for a profile pair. The pair is
// ordered, matching the prompt: (A,B) and (B,A) are distinct requests.
func profileDigest(p1, p2 domain.PredictProfile) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(p1)
	_ = enc.Encode(p2)
	return hex.EncodeToString(h.Sum(nil))
}

var (
	scoreRe    = regexp.MustCompile(`(?i)(?:score|match)\D{0,20}?(\d{1,3})`)
	listItemRe = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s*(.+)$`)
)

// parsePrediction extracts a Prediction from the model's sectioned free-text
// answer. The parser is tolerant: anything it cannot locate falls back to a
// neutral default rather than failing, since the free-text variant carries no
// structural contract.
func parsePrediction(text string) domain.Prediction {
	pred := domain.Prediction{Score: defaultPredictScore}

	if m := scoreRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 && n <= 100 {
			pred.Score = n
		}
	}

	sections := splitSections(text)
	pred.Analysis = sections["analysis"]
	pred.Compatibility = sections["challenges"]
	if recs := sections["recommendations"]; recs != "" {
		for _, line := range strings.Split(recs, "\n") {
			if m := listItemRe.FindStringSubmatch(line); m != nil {
				pred.Recommendations = append(pred.Recommendations, strings.TrimSpace(m[1]))
			}
		}
		if len(pred.Recommendations) == 0 {
			if t := strings.TrimSpace(recs); t != "" {
				pred.Recommendations = []string{t}
			}
		}
	}
	if pred.Analysis == "" {
		pred.Analysis = strings.TrimSpace(text)
	}
	if len(pred.Recommendations) == 0 {
		pred.Recommendations = defaultRecommendations
	}
	return pred
}

var sectionHeads = []struct{ name, key string }{
	{"analysis", "analysis"},
	{"challenges", "challenges"},
	{"recommendations", "recommendations"},
}

// splitSections cuts the reply into blocks keyed by recognized headings.
// Headings are matched case-insensitively at line starts, with optional
// numbering ("2. Analysis:", "**Challenges**").
func splitSections(text string) map[string]string {
	out := make(map[string]string)
	lines := strings.Split(text, "\n")
	current := ""
	var buf []string
	flush := func() {
		if current != "" {
			out[current] = strings.TrimSpace(strings.Join(buf, "\n"))
		}
		buf = buf[:0]
	}
	for _, line := range lines {
		head := headingOf(line)
		if head != "" {
			flush()
			current = head
			// Keep any text trailing the heading on the same line, shedding
			// leftover markdown emphasis markers.
			if i := strings.IndexAny(line, ":："); i >= 0 && i+1 < len(line) {
				rest := strings.TrimSpace(line[i+1:])
				rest = strings.TrimSpace(strings.TrimLeft(rest, "*_"))
				if rest != "" {
					buf = append(buf, rest)
				}
			}
			continue
		}
		buf = append(buf, line)
	}
	flush()
	return out
}

func headingOf(line string) string {
	t := strings.ToLower(strings.TrimSpace(line))
	t = strings.TrimLeft(t, "#*-•0123456789.) \t")
	t = strings.TrimRight(t, "#* \t")
	for _, h := range sectionHeads {
		if strings.HasPrefix(t, h.name) && len(t) < len(h.name)+40 {
			return h.key
		}
	}
	return ""
}
