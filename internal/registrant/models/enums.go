package models

// Wire-format enumerations for registrant classification fields. The string
// values are the de facto schema contract between clients and the datastore;
// parsing happens once at the boundary and the typed values flow everywhere
// else.

// Role discriminates the two registrant kinds.
type Role string

const (
	RoleProfessional Role = "PROFESSIONAL"
	RoleBusiness     Role = "BUSINESS"
)

// Sector is the enumerated business category.
type Sector string

const (
	SectorTechnologie           Sector = "TECHNOLOGIE"
	SectorAgroHalieutique       Sector = "AGRO_HALIEUTIQUE"
	SectorCommerce              Sector = "COMMERCE"
	SectorFinance               Sector = "FINANCE"
	SectorSante                 Sector = "SANTE"
	SectorEnergieDurabilite     Sector = "ÉNERGIE_DURABILITE"
	SectorTransport             Sector = "TRANSPORT"
	SectorIndustrie             Sector = "INDUSTRIE"
	SectorCommerceDistribution  Sector = "COMMERCE_DISTRIBUTION"
	SectorServicesProfessionnel Sector = "SERVICES_PROFESSIONNELS"
	SectorTourisme              Sector = "TOURISME"
	SectorMediaDivertissement   Sector = "MEDIA_DIVERTISSEMENT"
	SectorEducation             Sector = "EDUCATION"
	SectorAutre                 Sector = "AUTRE"
)

// ProfessionalInterest is one entry of a professional registrant's interest set.
type ProfessionalInterest string

const (
	InterestMentorat   ProfessionalInterest = "MENTORAT"
	InterestReseautage ProfessionalInterest = "RESEAUTAGE"
	InterestEmploi     ProfessionalInterest = "EMPLOI"
	InterestFormation  ProfessionalInterest = "FORMATION"
	InterestAutre      ProfessionalInterest = "AUTRE"
)

// CompanyNeed is one entry of a business registrant's declared needs set.
type CompanyNeed string

const (
	NeedPresentationMarque         CompanyNeed = "PRESENTATION_MARQUE"
	NeedReseauB2B                  CompanyNeed = "RESEAU_B2B"
	NeedTalentsQualifies           CompanyNeed = "TALENTS_QUALIFIES"
	NeedPartenariatsB2B            CompanyNeed = "PARTENARIATS_B2B"
	NeedFreelancesPrestataires     CompanyNeed = "FREELANCES_PRESTATAIRES"
	NeedVisibiliteMarketingDigital CompanyNeed = "VISIBILITE_MARKETING_DIGITAL"
	NeedInvestissements            CompanyNeed = "INVESTISSEMENTS"
	NeedMentorat                   CompanyNeed = "MENTORAT"
	NeedForumsSectoriels           CompanyNeed = "FORUMS_SECTORIELS"
	NeedAutre                      CompanyNeed = "AUTRE"
)

// CompanySize is the enumerated headcount bracket.
type CompanySize string

const (
	SizeLessThan10    CompanySize = "LESS_THAN_10"
	SizeBetween10_50  CompanySize = "BETWEEN_10_50"
	SizeBetween50_250 CompanySize = "BETWEEN_50_250"
	SizeMoreThan250   CompanySize = "MORE_THAN_250"
)

// ContractType is the professional's contract-type preference.
type ContractType string

const (
	ContractCDI       ContractType = "CDI"
	ContractCDD       ContractType = "CDD"
	ContractFreelance ContractType = "FREELANCE"
	ContractAutre     ContractType = "AUTRE"
)

var sectors = map[Sector]struct{}{
	SectorTechnologie: {}, SectorAgroHalieutique: {}, SectorCommerce: {},
	SectorFinance: {}, SectorSante: {}, SectorEnergieDurabilite: {},
	SectorTransport: {}, SectorIndustrie: {}, SectorCommerceDistribution: {},
	SectorServicesProfessionnel: {}, SectorTourisme: {},
	SectorMediaDivertissement: {}, SectorEducation: {}, SectorAutre: {},
}

var interests = map[ProfessionalInterest]struct{}{
	InterestMentorat: {}, InterestReseautage: {}, InterestEmploi: {},
	InterestFormation: {}, InterestAutre: {},
}

var needs = map[CompanyNeed]struct{}{
	NeedPresentationMarque: {}, NeedReseauB2B: {}, NeedTalentsQualifies: {},
	NeedPartenariatsB2B: {}, NeedFreelancesPrestataires: {},
	NeedVisibiliteMarketingDigital: {}, NeedInvestissements: {},
	NeedMentorat: {}, NeedForumsSectoriels: {}, NeedAutre: {},
}

var sizes = map[CompanySize]struct{}{
	SizeLessThan10: {}, SizeBetween10_50: {}, SizeBetween50_250: {}, SizeMoreThan250: {},
}

var contractTypes = map[ContractType]struct{}{
	ContractCDI: {}, ContractCDD: {}, ContractFreelance: {}, ContractAutre: {},
}

// ParseSector validates a wire string against the sector enumeration.
func ParseSector(v string) (Sector, bool) {
	s := Sector(v)
	_, ok := sectors[s]
	return s, ok
}

// ParseInterest validates a wire string against the interest enumeration.
func ParseInterest(v string) (ProfessionalInterest, bool) {
	i := ProfessionalInterest(v)
	_, ok := interests[i]
	return i, ok
}

// ParseNeed validates a wire string against the company-need enumeration.
func ParseNeed(v string) (CompanyNeed, bool) {
	n := CompanyNeed(v)
	_, ok := needs[n]
	return n, ok
}

// ParseCompanySize validates a wire string against the size enumeration.
func ParseCompanySize(v string) (CompanySize, bool) {
	s := CompanySize(v)
	_, ok := sizes[s]
	return s, ok
}

// ParseContractType validates a wire string against the contract enumeration.
func ParseContractType(v string) (ContractType, bool) {
	c := ContractType(v)
	_, ok := contractTypes[c]
	return c, ok
}
