package learn

import (
	"fmt"
	"sort"

	"github.com/smartbean/smartbean/internal/common"
)

// Classifier is the contract the prediction pipeline needs from a multi-class
// classifier.
type Classifier interface {
	Fit(x Matrix, labels []string) error
	Predict(x Matrix) ([]string, error)
	DecisionFunction(x Matrix) (Matrix, error)
	Classes() []string
}

// Perceptron is a linear one-vs-rest classifier trained with the averaged
// perceptron rule. Training iterates the samples in their given order for a
// fixed number of epochs, so fitting is fully deterministic.
type Perceptron struct {
	classes []string
	weights [][]float64
	bias    []float64
	Epochs  int
}

// Ensure Perceptron implements the Classifier interface.
var _ Classifier = (*Perceptron)(nil)

// NewPerceptron creates a classifier with the default number of epochs.
func NewPerceptron() *Perceptron {
	return &Perceptron{Epochs: 25}
}

// Fit trains one binary averaged perceptron per class. It requires at least
// two distinct labels; single-class data is short-circuited by callers before
// ever reaching the classifier.
func (p *Perceptron) Fit(x Matrix, labels []string) error {
	if len(labels) != x.Rows {
		return fmt.Errorf("label count %d does not match sample count %d", len(labels), x.Rows)
	}

	seen := make(map[string]struct{})
	for _, label := range labels {
		seen[label] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for label := range seen {
		classes = append(classes, label)
	}
	sort.Strings(classes)

	if len(classes) < 2 {
		return fmt.Errorf("%w: need at least two classes, got %d", common.ErrNoTrainingData, len(classes))
	}

	classIndex := make(map[string]int, len(classes))
	for i, class := range classes {
		classIndex[class] = i
	}

	p.classes = classes
	p.weights = make([][]float64, len(classes))
	p.bias = make([]float64, len(classes))

	for c := range classes {
		p.weights[c], p.bias[c] = p.fitBinary(x, labels, classIndex, c)
	}
	return nil
}

// fitBinary trains a single one-vs-rest averaged perceptron. The averaging
// uses the cumulative-sum trick so only two weight vectors are kept.
func (p *Perceptron) fitBinary(x Matrix, labels []string, classIndex map[string]int, class int) ([]float64, float64) {
	w := make([]float64, x.Cols)
	u := make([]float64, x.Cols)
	var b, ub float64
	counter := 1.0

	for epoch := 0; epoch < p.Epochs; epoch++ {
		for i := 0; i < x.Rows; i++ {
			y := -1.0
			if classIndex[labels[i]] == class {
				y = 1.0
			}
			row := x.Row(i)
			score := b
			for j, v := range row {
				score += w[j] * v
			}
			if y*score <= 0 {
				for j, v := range row {
					w[j] += y * v
					u[j] += counter * y * v
				}
				b += y
				ub += counter * y
			}
			counter++
		}
	}

	for j := range w {
		w[j] -= u[j] / counter
	}
	return w, b - ub/counter
}

// Classes returns the class labels in the column order used by
// DecisionFunction.
func (p *Perceptron) Classes() []string {
	return p.classes
}

// DecisionFunction returns the per-class scores for each sample, one row per
// sample and one column per class.
func (p *Perceptron) DecisionFunction(x Matrix) (Matrix, error) {
	if p.classes == nil {
		return Matrix{}, common.ErrNotFitted
	}
	if len(p.weights[0]) != x.Cols {
		return Matrix{}, fmt.Errorf("feature count %d does not match fitted width %d", x.Cols, len(p.weights[0]))
	}

	out := NewMatrix(x.Rows, len(p.classes))
	for i := 0; i < x.Rows; i++ {
		row := x.Row(i)
		for c := range p.classes {
			score := p.bias[c]
			for j, v := range row {
				score += p.weights[c][j] * v
			}
			out.Set(i, c, score)
		}
	}
	return out, nil
}

// Predict returns the highest-scoring class for each sample. Ties resolve to
// the lexicographically first class.
func (p *Perceptron) Predict(x Matrix) ([]string, error) {
	scores, err := p.DecisionFunction(x)
	if err != nil {
		return nil, err
	}

	labels := make([]string, x.Rows)
	for i := 0; i < x.Rows; i++ {
		best := 0
		row := scores.Row(i)
		for c, score := range row {
			if score > row[best] {
				best = c
			}
		}
		labels[i] = p.classes[best]
	}
	return labels, nil
}
