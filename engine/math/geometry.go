package math

/**
 * @brief Creates extents that are inverted-infinite, suitable as the
 * starting accumulator for Union operations.
 */
func NewExtents3DEmpty() Extents3D {
	return Extents3D{
		Min: Vec3{+K_INFINITY, +K_INFINITY, +K_INFINITY},
		Max: Vec3{-K_INFINITY, -K_INFINITY, -K_INFINITY},
	}
}

/**
 * @brief Returns true when the extents describe a non-degenerate box.
 */
func (e Extents3D) IsValid() bool {
	return e.Min.X <= e.Max.X && e.Min.Y <= e.Max.Y && e.Min.Z <= e.Max.Z
}

/**
 * @brief Returns the smallest extents enclosing both e and other.
 */
func (e Extents3D) Union(other Extents3D) Extents3D {
	return Extents3D{
		Min: e.Min.Min(other.Min),
		Max: e.Max.Max(other.Max),
	}
}

/**
 * @brief Transforms all eight corners of the box by m and returns the
 * axis-aligned extents of the result.
 */
func (e Extents3D) Transform(m Mat4) Extents3D {
	corners := [8]Vec3{
		{e.Min.X, e.Min.Y, e.Min.Z},
		{e.Min.X, e.Min.Y, e.Max.Z},
		{e.Min.X, e.Max.Y, e.Min.Z},
		{e.Min.X, e.Max.Y, e.Max.Z},
		{e.Max.X, e.Min.Y, e.Min.Z},
		{e.Max.X, e.Min.Y, e.Max.Z},
		{e.Max.X, e.Max.Y, e.Min.Z},
		{e.Max.X, e.Max.Y, e.Max.Z},
	}

	out := NewExtents3DEmpty()
	for _, c := range corners {
		p := c.Transform(m)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}
