package detection

// Component is one 8-connected group of set mask pixels.
type Component struct {
	// Bounds is the bounding box of the component in mask coordinates.
	Bounds Bounds
	// Pixels is the number of set pixels in the component.
	Pixels int
}

// CenterY returns the vertical centre of the component's bounding box.
func (c Component) CenterY() float64 {
	return float64(c.Bounds.Y1) + float64(c.Bounds.Height())/2
}

// findComponents groups the set pixels of mask into 8-connected components.
//
// Components are returned in raster order of their first pixel. mask is
// indexed [y][x] and every row must have the same length.
func findComponents(mask [][]bool) []Component {
	height := len(mask)
	if height == 0 {
		return nil
	}
	width := len(mask[0])

	visited := make([][]bool, height)
	for y := 0; y < height; y++ {
		visited[y] = make([]bool, width)
	}

	var components []Component
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask[y][x] && !visited[y][x] {
				components = append(components, floodFill(mask, visited, x, y, width, height))
			}
		}
	}
	return components
}

// floodFill performs an iterative flood fill from a starting point and
// returns the component it covers.
//
// Uses an explicit stack rather than recursion so that a card-sized region
// cannot exhaust the goroutine stack. Uses 8-connectivity.
func floodFill(mask, visited [][]bool, startX, startY, width, height int) Component {
	c := Component{Bounds: Bounds{X1: startX, Y1: startY, X2: startX + 1, Y2: startY + 1}}
	stack := []Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if visited[p.Y][p.X] || !mask[p.Y][p.X] {
			continue
		}

		visited[p.Y][p.X] = true
		c.Pixels++
		c.Bounds = c.Bounds.Union(Bounds{X1: p.X, Y1: p.Y, X2: p.X + 1, Y2: p.Y + 1})

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
	return c
}
