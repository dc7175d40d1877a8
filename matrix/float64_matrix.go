package matrix

// internal Float64 matrix representation, mainly used for
// accumulating posterior estimates
type Float64Matrix struct {
	nrow uint32
	ncol uint32
	data []float64
}

// NewFloat64Matrix creates a new Float64Matrix with r rows and c columns
func NewFloat64Matrix(r, c uint32) *Float64Matrix {
	if r == 0 || c == 0 {
		panic(ErrBadShape)
	}
	return &Float64Matrix{
		nrow: r,
		ncol: c,
		data: make([]float64, uint64(r)*uint64(c)),
	}
}

// get the shape of the matrix
func (m *Float64Matrix) Shape() (uint32, uint32) {
	return m.nrow, m.ncol
}

// get the [r, c]-th element of the matrix
func (m *Float64Matrix) Get(r, c uint32) float64 {
	if r >= m.nrow || c >= m.ncol {
		panic(ErrIndexOutOfRange)
	}
	return m.data[r*m.ncol+c]
}

// add val to the [r, c]-th element of the matrix
func (m *Float64Matrix) Add(r, c uint32, val float64) {
	if r >= m.nrow || c >= m.ncol {
		panic(ErrIndexOutOfRange)
	}
	m.data[r*m.ncol+c] += val
}

// AddMatrix adds o elementwise into m. Both must have the same shape.
func (m *Float64Matrix) AddMatrix(o *Float64Matrix) {
	if r, c := o.Shape(); m.nrow != r || m.ncol != c {
		panic(ErrBadShape)
	}
	for i, v := range o.data {
		m.data[i] += v
	}
}

// multiply every element by s
func (m *Float64Matrix) Scale(s float64) {
	for i := range m.data {
		m.data[i] *= s
	}
}
