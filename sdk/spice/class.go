package spice

import "fmt"

// Class identifies one of the four rhizome classes the models were
// trained on. The integer value is the model's output index.
type Class int

const (
	Jahe Class = iota
	Kencur
	Kunyit
	Lengkuas
)

// NumClasses is the size of the model's output vector.
const NumClasses = 4

var classNames = [NumClasses]string{"Jahe", "Kencur", "Kunyit", "Lengkuas"}

// Classes returns all classes in output-index order.
func Classes() [NumClasses]Class {
	return [NumClasses]Class{Jahe, Kencur, Kunyit, Lengkuas}
}

// String returns the display name for the class.
func (c Class) String() string {
	if c < 0 || int(c) >= NumClasses {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classNames[c]
}

// ClassFromIndex maps a model output index back to its class.
func ClassFromIndex(idx int) (Class, error) {
	if idx < 0 || idx >= NumClasses {
		return 0, fmt.Errorf("class index out of range: %d", idx)
	}
	return Class(idx), nil
}

// ParseClass maps a display name to its class. The match is exact.
func ParseClass(name string) (Class, error) {
	for i, n := range classNames {
		if n == name {
			return Class(i), nil
		}
	}
	return 0, fmt.Errorf("unknown class: %q", name)
}

// =============================================================================

// Prediction is the result of resolving a probability distribution.
type Prediction struct {
	Class        Class
	Confidence   float32
	Distribution [NumClasses]float32
}

// Resolve computes the arg-max of the distribution. Ties break to the
// lowest index, matching the first occurrence in the output vector.
func Resolve(distribution [NumClasses]float32) Prediction {
	maxIdx := 0
	maxVal := distribution[0]

	for i := 1; i < NumClasses; i++ {
		if distribution[i] > maxVal {
			maxVal = distribution[i]
			maxIdx = i
		}
	}

	return Prediction{
		Class:        Class(maxIdx),
		Confidence:   maxVal,
		Distribution: distribution,
	}
}
