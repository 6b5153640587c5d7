package fold

import "cparty/core/scfg"

// fill runs every rule over the triangle, j ascending and i descending, then
// the exterior row. Pseudoknotted tables stay Zero when pk is false.
func fill(c scfg.Context, n int, pk bool) {
	for j := 1; j <= n; j++ {
		for i := j; i >= 1; i-- {
			if pk {
				scfg.ComputeVP(c, i, j)
				scfg.ComputeVPL(c, i, j)
				scfg.ComputeVPR(c, i, j)
			}
			scfg.ComputeVM(c, i, j)
			scfg.ComputeV(c, i, j)
			if pk {
				scfg.ComputeWMBP(c, i, j)
				scfg.ComputeWMBW(c, i, j)
				scfg.ComputeWMB(c, i, j)
			}
			scfg.ComputeWI(c, i, j)
			if pk {
				scfg.ComputeWIP(c, i, j)
			}
			scfg.ComputeWMv(c, i, j)
			scfg.ComputeWMp(c, i, j)
			scfg.ComputeWM(c, i, j)
		}
	}
	scfg.FillW(c)
}
