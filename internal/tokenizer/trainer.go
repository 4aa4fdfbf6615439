package tokenizer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultMinPairFrequency is the lowest pair count worth merging. A pair
// occurring once yields no compression and only wastes vocabulary budget.
const DefaultMinPairFrequency = 2

// MergeRule records one learned merge: Left followed by Right collapses
// into Result. Rules must be replayed in recorded order; Result is always
// a fresh id (base size + rule index).
type MergeRule struct {
	Left   int
	Right  int
	Result int
}

// Model is a trained tokenizer snapshot: the grown vocabulary plus the
// ordered merge list. Immutable after training; safe for concurrent
// encode/decode use.
type Model struct {
	Vocab  *Vocabulary
	Merges []MergeRule
}

// NewModel assembles a model from persisted parts, verifying that the
// merge list replays exactly onto the vocabulary: contiguous result ids
// starting at the base size, operands preceding their result, and each
// result symbol equal to the concatenation of its operands.
func NewModel(vocab *Vocabulary, merges []MergeRule) (*Model, error) {
	if vocab.Size() != vocab.BaseSize()+len(merges) {
		return nil, fmt.Errorf("%w: %d symbols != %d base + %d merges",
			ErrMalformedModel, vocab.Size(), vocab.BaseSize(), len(merges))
	}
	for i, r := range merges {
		want := vocab.BaseSize() + i
		if r.Result != want {
			return nil, fmt.Errorf("%w: merge %d result id %d, want %d", ErrMalformedModel, i, r.Result, want)
		}
		if r.Left < 0 || r.Left >= r.Result || r.Right < 0 || r.Right >= r.Result {
			return nil, fmt.Errorf("%w: merge %d references ids (%d,%d) outside [0,%d)",
				ErrMalformedModel, i, r.Left, r.Right, r.Result)
		}
		left, _ := vocab.Symbol(r.Left)
		right, _ := vocab.Symbol(r.Right)
		got, _ := vocab.Symbol(r.Result)
		if got != left+right {
			return nil, fmt.Errorf("%w: merge %d symbol %q != %q + %q", ErrMalformedModel, i, got, left, right)
		}
	}
	return &Model{Vocab: vocab, Merges: merges}, nil
}

type pair struct {
	a, b int
}

// pairStat tracks a pair's corpus frequency and its earliest occurrence,
// the deterministic tie-breaker for merge selection.
type pairStat struct {
	count     int
	firstWord int
	firstOff  int
}

func (s pairStat) earlier(o pairStat) bool {
	if s.firstWord != o.firstWord {
		return s.firstWord < o.firstWord
	}
	return s.firstOff < o.firstOff
}

// Trainer learns merge rules from a corpus. Configure with options; zero
// values fall back to defaults.
type Trainer struct {
	minPairFreq   int
	workers       int
	maxIterations int
	logger        *slog.Logger
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithMinPairFrequency sets the lowest pair count that may still merge.
func WithMinPairFrequency(n int) TrainerOption {
	return func(t *Trainer) { t.minPairFreq = n }
}

// WithWorkers sets the worker count for the per-iteration frequency scan.
func WithWorkers(n int) TrainerOption {
	return func(t *Trainer) { t.workers = n }
}

// WithMaxIterations bounds the number of merges as a safety valve against
// corpora that never saturate. Zero means unbounded.
func WithMaxIterations(n int) TrainerOption {
	return func(t *Trainer) { t.maxIterations = n }
}

// WithLogger sets the slog.Logger used for training progress.
func WithLogger(l *slog.Logger) TrainerOption {
	return func(t *Trainer) { t.logger = l }
}

// NewTrainer returns a trainer with the given options applied.
func NewTrainer(opts ...TrainerOption) *Trainer {
	t := &Trainer{
		minPairFreq: DefaultMinPairFrequency,
		logger:      slog.Default(),
	}
	for _, fn := range opts {
		fn(t)
	}
	if t.minPairFreq < 1 {
		t.minPairFreq = 1
	}
	return t
}

// Train learns merges from corpus until the vocabulary reaches targetSize
// or no pair reaches the minimum frequency. An empty corpus yields the
// base vocabulary with zero merges. The context is honoured at iteration
// boundaries only; a cancelled context aborts without a partial model.
func (t *Trainer) Train(ctx context.Context, corpus string, targetSize int) (*Model, error) {
	vocab := NewBaseVocabulary()
	if targetSize <= vocab.BaseSize() {
		return nil, fmt.Errorf("%w: target %d, base %d", ErrInvalidVocabSize, targetSize, vocab.BaseSize())
	}

	words, _ := NewPreprocessor(vocab).Words(corpus)

	merges := make([]MergeRule, 0, targetSize-vocab.BaseSize())
	// Pairs whose concatenation collides with an existing symbol (a base
	// conjunct reachable through partial merges) are excluded permanently:
	// the merged form already has its own id.
	banned := make(map[pair]bool)

	for vocab.Size() < targetSize {
		if t.maxIterations > 0 && len(merges) >= t.maxIterations {
			t.logger.Info("training stopped at iteration bound", slog.Int("iterations", len(merges)))
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stats, err := t.countPairs(ctx, words)
		if err != nil {
			return nil, err
		}

		committed := false
		for {
			best, st, ok := selectPair(stats, banned)
			if !ok || st.count < t.minPairFreq {
				break // saturated
			}

			left, _ := vocab.Symbol(best.a)
			right, _ := vocab.Symbol(best.b)
			if _, exists := vocab.ID(left + right); exists {
				banned[best] = true
				continue
			}

			id := vocab.add(left + right)
			merges = append(merges, MergeRule{Left: best.a, Right: best.b, Result: id})
			for i := range words {
				words[i] = words[i].mergePair(best.a, best.b, id)
			}

			t.logger.Debug("merge committed",
				slog.Int("rule", len(merges)),
				slog.String("left", left),
				slog.String("right", right),
				slog.Int("result", id),
				slog.Int("count", st.count),
			)
			committed = true
			break
		}
		if !committed {
			break
		}
	}

	t.logger.Info("training complete",
		slog.Int("vocab_size", vocab.Size()),
		slog.Int("base_size", vocab.BaseSize()),
		slog.Int("merges", len(merges)),
	)
	return &Model{Vocab: vocab, Merges: merges}, nil
}

// countPairs scans every adjacent pair across disjoint word shards in
// parallel and reduces the partial tables by associative sum; the earliest
// occurrence reduces by minimum, so the result is shard-count independent.
// Pairs touching the unknown sentinel never merge and are not counted.
func (t *Trainer) countPairs(ctx context.Context, words []Word) (map[pair]pairStat, error) {
	workers := t.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(words) {
		workers = len(words)
	}
	if workers == 0 {
		return map[pair]pairStat{}, nil
	}

	partials := make([]map[pair]pairStat, workers)
	chunk := (len(words) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for s := 0; s < workers; s++ {
		s := s
		lo := s * chunk
		hi := min(lo+chunk, len(words))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			local := make(map[pair]pairStat)
			for wi := lo; wi < hi; wi++ {
				w := words[wi]
				for i := 0; i+1 < len(w); i++ {
					a, b := w[i], w[i+1]
					if a == UnknownID || b == UnknownID {
						continue
					}
					p := pair{a, b}
					st, seen := local[p]
					if !seen {
						st = pairStat{firstWord: wi, firstOff: i}
					}
					st.count++
					local[p] = st
				}
			}
			partials[s] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := make(map[pair]pairStat)
	for _, local := range partials {
		for p, st := range local {
			agg, seen := total[p]
			if !seen {
				total[p] = st
				continue
			}
			agg.count += st.count
			if st.earlier(agg) {
				agg.firstWord, agg.firstOff = st.firstWord, st.firstOff
			}
			total[p] = agg
		}
	}
	return total, nil
}

// selectPair picks the strictly most frequent pair; ties break on the
// earliest first occurrence in the corpus. The ordering is total, so the
// choice is independent of map iteration order.
func selectPair(stats map[pair]pairStat, banned map[pair]bool) (pair, pairStat, bool) {
	var best pair
	var bestStat pairStat
	found := false
	for p, st := range stats {
		if banned[p] {
			continue
		}
		if !found || st.count > bestStat.count ||
			(st.count == bestStat.count && st.earlier(bestStat)) {
			best, bestStat, found = p, st, true
		}
	}
	return best, bestStat, found
}

// mergePair rewrites every adjacent (a, b) occurrence as newID in one
// left-to-right pass without overlapping rematches. Returns the original
// slice untouched when the pair is absent.
func (w Word) mergePair(a, b, newID int) Word {
	present := false
	for i := 0; i+1 < len(w); i++ {
		if w[i] == a && w[i+1] == b {
			present = true
			break
		}
	}
	if !present {
		return w
	}

	out := make(Word, 0, len(w))
	for i := 0; i < len(w); {
		if i+1 < len(w) && w[i] == a && w[i+1] == b {
			out = append(out, newID)
			i += 2
		} else {
			out = append(out, w[i])
			i++
		}
	}
	return out
}
