package value

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/factline/factline/internal/model"
)

// observation remembers the value shape last seen under a canonical key
type observation struct {
	Kind     model.ValueKind
	Unit     string
	Operator model.Operator
	Degraded bool // units/operators varied at some point; stays loose
}

// Observations grades comparability against prior values under the same
// canonical key. The first well-formed value under a key is strict; later
// unit or operator drift degrades the key to loose and keeps it there.
type Observations struct {
	cache *gocache.Cache
}

// NewObservations creates an observation store with the given expiry
func NewObservations(ttl time.Duration) *Observations {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Observations{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// Grade records v under key and returns its comparability.
// Values without a key cannot be tied to prior observations and grade loose.
func (o *Observations) Grade(key string, v model.ValueInfo) model.Comparability {
	if v.Kind == model.ValueNone {
		return model.CompareNonComparable
	}
	if key == "" {
		return model.CompareLoose
	}

	prior, found := o.cache.Get(key)
	if !found {
		o.cache.SetDefault(key, observation{Kind: v.Kind, Unit: v.Unit, Operator: v.Operator})
		return model.CompareStrict
	}

	obs := prior.(observation)
	if obs.Degraded {
		return model.CompareLoose
	}
	if obs.Kind == v.Kind && obs.Unit == v.Unit && obs.Operator == v.Operator {
		return model.CompareStrict
	}

	obs.Degraded = true
	o.cache.SetDefault(key, obs)
	return model.CompareLoose
}
