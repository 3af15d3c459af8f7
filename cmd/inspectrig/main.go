package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"skinbind/internal/filter"
	"skinbind/internal/mathutil"
	"skinbind/internal/rig"
	"skinbind/internal/texture"
)

func main() {
	showBones := flag.Bool("bones", false, "List every joint with its world position")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: inspectrig [-bones] <model.bmd|skin.json|skin.yaml>...")
		os.Exit(2)
	}

	failed := false
	for _, arg := range flag.Args() {
		r, err := rig.Load(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Load error %s: %v\n", arg, err)
			failed = true
			continue
		}
		printRig(r, *showBones)
	}
	if failed {
		os.Exit(1)
	}
}

func printRig(r *rig.Rig, showBones bool) {
	fmt.Printf("\n=== %s (vertices=%d triangles=%d joints=%d) ===\n",
		r.Source, len(r.Mesh.Vertices), len(r.Mesh.Triangles), len(r.Joints))

	lo, hi := bounds(r.Mesh.Vertices)
	fmt.Printf("  bbox min=(%.3f,%.3f,%.3f) max=(%.3f,%.3f,%.3f)\n", lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
	if !r.MeshWorld.IsIdentity() {
		t := r.MeshWorld.Translation()
		fmt.Printf("  mesh transform: position=(%.3f,%.3f,%.3f)\n", t[0], t[1], t[2])
	}

	texIdx := texture.BuildIndex(filepath.Dir(r.Source))
	fmt.Println("--- GROUPS ---")
	for i, g := range r.Groups {
		texInfo := "MISSING"
		if g.TexPath == "" {
			texInfo = "none"
		} else if p, ok := texIdx.ResolvePath(g.TexPath); ok {
			texInfo = filepath.Base(p)
		}
		flags := ""
		if g.Effect {
			flags = " [EFFECT]"
		}
		fmt.Printf("  Group[%d]: triangles=%d..%d tex=%q (%s)%s\n",
			i, g.FirstTriangle, g.FirstTriangle+g.TriangleCount, filter.TextureStem(g.TexPath), texInfo, flags)
	}

	st := r.Weights.Stats()
	fmt.Println("--- WEIGHTS ---")
	fmt.Printf("  vertices=%d influences=%d max/vertex=%d unweighted=%d bones used=%d\n",
		st.Vertices, st.Influences, st.MaxPerVertex, st.Unweighted, st.DistinctBones)

	usage := map[int]int{}
	for v := 0; v < r.Weights.Len(); v++ {
		for _, bw := range r.Weights.Weights(v) {
			if bw.Weight > 0 {
				usage[bw.Bone]++
			}
		}
	}
	unresolved := 0
	for _, j := range r.Joints {
		if !j.Resolved {
			unresolved++
		}
	}
	fmt.Printf("  joints unresolved=%d\n", unresolved)

	if !showBones {
		return
	}
	fmt.Println("--- JOINTS ---")
	ids := make([]int, len(r.Joints))
	for i := range ids {
		ids[i] = i
	}
	sort.SliceStable(ids, func(a, b int) bool { return usage[ids[a]] > usage[ids[b]] })
	for _, i := range ids {
		j := r.Joints[i]
		p := j.World.Translation()
		state := ""
		if !j.Resolved {
			state = " [UNRESOLVED]"
		}
		fmt.Printf("  [%3d] %-24s vertices=%-6d pos=(%.3f,%.3f,%.3f)%s\n", i, j.Name, usage[i], p[0], p[1], p[2], state)
	}
}

func bounds(vs []mathutil.Vec3) (mathutil.Vec3, mathutil.Vec3) {
	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	if len(vs) == 0 {
		return mathutil.Vec3{}, mathutil.Vec3{}
	}
	for _, v := range vs {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], v[k])
			hi[k] = math.Max(hi[k], v[k])
		}
	}
	return lo, hi
}
