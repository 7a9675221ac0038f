package job

import "errors"

// CreateJobDTO is the request payload for posting a job.
type CreateJobDTO struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Location       string `json:"location"`
	EmploymentType string `json:"employment_type"`
	SalaryMin      *int64 `json:"salary_min,omitempty"`
	SalaryMax      *int64 `json:"salary_max,omitempty"`
}

func (dto CreateJobDTO) Validate() error {
	if dto.Title == "" {
		return errors.New("title is required")
	}
	if len(dto.Title) > 200 {
		return errors.New("title must be less than 200 characters")
	}
	if dto.SalaryMin != nil && *dto.SalaryMin < 0 {
		return errors.New("salary_min cannot be negative")
	}
	if dto.SalaryMin != nil && dto.SalaryMax != nil && *dto.SalaryMax < *dto.SalaryMin {
		return errors.New("salary_max cannot be below salary_min")
	}
	return nil
}

// UpdateJobStatusDTO is the request payload for moving a job through its
// lifecycle.
type UpdateJobStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateJobStatusDTO) Validate() error {
	switch dto.Status {
	case StatusOpen, StatusClosed:
		return nil
	default:
		return errors.New("status must be either 'open' or 'closed'")
	}
}
