package constants

// CIDCategories maps the leading letter of a CID-10 code to its chapter
// description. Used to reject codes whose category letter does not exist.
var CIDCategories = map[rune]string{
	'A': "Doenças infecciosas e parasitárias",
	'B': "Doenças infecciosas e parasitárias",
	'C': "Neoplasias (tumores)",
	'D': "Doenças do sangue",
	'E': "Doenças endócrinas",
	'F': "Transtornos mentais",
	'G': "Doenças do sistema nervoso",
	'H': "Doenças dos olhos e ouvidos",
	'I': "Doenças do aparelho circulatório",
	'J': "Doenças do aparelho respiratório",
	'K': "Doenças do aparelho digestivo",
	'L': "Doenças da pele",
	'M': "Doenças do sistema osteomuscular",
	'N': "Doenças do aparelho geniturinário",
	'O': "Gravidez, parto e puerpério",
	'P': "Afecções do período perinatal",
	'Q': "Malformações congênitas",
	'R': "Sintomas e sinais anormais",
	'S': "Lesões por causas externas",
	'T': "Lesões por causas externas",
	'U': "Códigos para situações especiais",
	'V': "Causas externas de morbidade",
	'W': "Causas externas de morbidade",
	'X': "Causas externas de morbidade",
	'Y': "Causas externas de morbidade",
	'Z': "Fatores que influenciam o estado de saúde",
}

// ValidCIDCategory reports whether r is a known CID-10 chapter letter.
func ValidCIDCategory(r rune) bool {
	_, ok := CIDCategories[r]
	return ok
}
