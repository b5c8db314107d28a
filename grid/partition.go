package grid

// factorizeBalanced splits n ranks across three axes as evenly as
// possible, used when the caller leaves ranks_per_dim unspecified (or
// gives an inconsistent one). It greedily assigns the largest
// remaining prime factor of n to whichever axis currently has the
// smallest product, which tends towards cube-like blocks.
func factorizeBalanced(n int) [3]int {
	dims := [3]int{1, 1, 1}
	if n <= 1 {
		return dims
	}
	factors := primeFactors(n)
	// assign largest factors first so the greedy balancing is stable
	for i, j := 0, len(factors)-1; i < j; i, j = i+1, j-1 {
		factors[i], factors[j] = factors[j], factors[i]
	}
	for _, f := range factors {
		lo := 0
		for d := 1; d < 3; d++ {
			if dims[d] < dims[lo] {
				lo = d
			}
		}
		dims[lo] *= f
	}
	return dims
}

func primeFactors(n int) []int {
	var fs []int
	for n%2 == 0 {
		fs = append(fs, 2)
		n /= 2
	}
	for p := 3; p*p <= n; p += 2 {
		for n%p == 0 {
			fs = append(fs, p)
			n /= p
		}
	}
	if n > 1 {
		fs = append(fs, n)
	}
	return fs
}

// resolveRanksPerDim substitutes a balanced factorization whenever the
// caller's choice is infeasible: any zero entry, or a product that
// disagrees with the communicator size.
func resolveRanksPerDim(requested [3]int, nranks int) [3]int {
	prod := requested[0] * requested[1] * requested[2]
	if requested[0] <= 0 || requested[1] <= 0 || requested[2] <= 0 || prod != nranks {
		return factorizeBalanced(nranks)
	}
	return requested
}

// blockExtent computes this rank's [lo, hi) owned-cell range along one
// axis for a classic balanced block distribution: the first
// (total mod parts) blocks get one extra cell.
func blockExtent(total, parts, coord int) (lo, hi int) {
	base := total / parts
	rem := total % parts
	if coord < rem {
		lo = coord * (base + 1)
		hi = lo + base + 1
	} else {
		lo = rem*(base+1) + (coord-rem)*base
		hi = lo + base
	}
	return
}

// rankCoord decomposes a linear rank into its (i,j,k) Cartesian
// coordinate under a row-major ranksPerDim layout: rank = (ci*ny+cj)*nz+ck.
func rankCoord(rank int, ranksPerDim [3]int) [3]int {
	nz := ranksPerDim[2]
	ny := ranksPerDim[1]
	ck := rank % nz
	cj := (rank / nz) % ny
	ci := rank / (nz * ny)
	return [3]int{ci, cj, ck}
}

// rankOf is the inverse of rankCoord; coord components outside
// [0, ranksPerDim[d]) mean "no such rank" (a physical boundary), signalled by -1.
func rankOf(coord [3]int, ranksPerDim [3]int) int {
	for d := 0; d < 3; d++ {
		if coord[d] < 0 || coord[d] >= ranksPerDim[d] {
			return -1
		}
	}
	return (coord[0]*ranksPerDim[1]+coord[1])*ranksPerDim[2] + coord[2]
}
