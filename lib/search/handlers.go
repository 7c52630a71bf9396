package search

import "github.com/ValentinKolb/rgKV/lib/db/util"

// SearchKeys returns all keys whose name matches the pattern.
func SearchKeys(gw Gateway, args KeySearchArgs) (Response, error) {
	agg, err := matchingKeys(gw, args.Pattern)
	if err != nil {
		return nil, err
	}
	return agg.Response(), nil
}

// SearchValues returns the keys within the mask whose value matches the pattern.
// Keys that cannot be read, are gone, or hold binary values are skipped.
func SearchValues(gw Gateway, args ValueSearchArgs) (Response, error) {
	keys, err := gw.Enumerate(args.Mask)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return NoResults{}, nil
	}

	values, err := gw.ReadMany(keys)
	if err != nil {
		return nil, err
	}

	agg := NewAggregator(0)
	for i, key := range keys {
		value, ok := AsString(values[i])
		if !ok {
			log.Debugf("skipping %q: value is missing or not text (%T)", key, values[i])
			skippedValues.Inc()
			continue
		}
		if args.Pattern.Match(value) {
			agg.Add(key)
		}
	}
	return agg.Response(), nil
}

// DeleteByPattern deletes every key SearchKeys would report for the same
// pattern and returns the number of accepted deletes.
func DeleteByPattern(gw Gateway, args KeySearchArgs) (Response, error) {
	agg, err := matchingKeys(gw, args.Pattern)
	if err != nil {
		return nil, err
	}

	deleted := 0
	for _, key := range agg.Keys() {
		if gw.DeleteOne(key) {
			deleted++
		}
	}
	return CountResponse(deleted), nil
}

// matchingKeys is the single definition of "keys matching a pattern".
func matchingKeys(gw Gateway, p Predicate) (*Aggregator, error) {
	keys, err := gw.Enumerate(util.MatchAll)
	if err != nil {
		return nil, err
	}
	agg := NewAggregator(0)
	for _, key := range keys {
		if p.Match(key) {
			agg.Add(key)
		}
	}
	return agg, nil
}
