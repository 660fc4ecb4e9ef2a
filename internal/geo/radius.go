package geo

// FilterByRadius returns the items whose position lies within radiusKm of origin,
// boundary included, in input order. The input slice is not modified.
func FilterByRadius[T Located](origin Coordinates, items []T, radiusKm float64) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if DistanceKm(origin, item.Position()) <= radiusKm {
			result = append(result, item)
		}
	}
	return result
}
