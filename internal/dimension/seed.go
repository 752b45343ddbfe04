package dimension

// seedConcepts defines the concept taxonomy: four concepts per dimension.
var seedConcepts = []Concept{
	// Causal Analysis
	{Key: "ca-correlation-causation", Dimension: CausalAnalysis, Name: "Correlation vs. causation"},
	{Key: "ca-confounders", Dimension: CausalAnalysis, Name: "Confounding variables"},
	{Key: "ca-causal-chains", Dimension: CausalAnalysis, Name: "Causal chains"},
	{Key: "ca-reverse-causation", Dimension: CausalAnalysis, Name: "Reverse causation"},

	// Premise Challenge
	{Key: "pc-hidden-assumptions", Dimension: PremiseChallenge, Name: "Hidden assumptions"},
	{Key: "pc-evidence-quality", Dimension: PremiseChallenge, Name: "Evidence quality"},
	{Key: "pc-definitions", Dimension: PremiseChallenge, Name: "Contested definitions"},
	{Key: "pc-burden-of-proof", Dimension: PremiseChallenge, Name: "Burden of proof"},

	// Fallacy Detection
	{Key: "fd-ad-hominem", Dimension: FallacyDetection, Name: "Ad hominem"},
	{Key: "fd-straw-man", Dimension: FallacyDetection, Name: "Straw man"},
	{Key: "fd-false-dilemma", Dimension: FallacyDetection, Name: "False dilemma"},
	{Key: "fd-slippery-slope", Dimension: FallacyDetection, Name: "Slippery slope"},

	// Iterative Reflection
	{Key: "ir-self-questioning", Dimension: IterativeReflection, Name: "Self-questioning"},
	{Key: "ir-belief-revision", Dimension: IterativeReflection, Name: "Belief revision"},
	{Key: "ir-bias-awareness", Dimension: IterativeReflection, Name: "Bias awareness"},
	{Key: "ir-steelmanning", Dimension: IterativeReflection, Name: "Steelmanning"},

	// Connection & Transfer
	{Key: "ct-analogy", Dimension: ConnectionTransfer, Name: "Reasoning by analogy"},
	{Key: "ct-cross-domain", Dimension: ConnectionTransfer, Name: "Cross-domain transfer"},
	{Key: "ct-systems-thinking", Dimension: ConnectionTransfer, Name: "Systems thinking"},
	{Key: "ct-first-principles", Dimension: ConnectionTransfer, Name: "First principles"},
}
